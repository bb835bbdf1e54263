package registry

import (
	"encoding/binary"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/downfa11-org/go-eventfs/pkg/events"
	"github.com/downfa11-org/go-eventfs/pkg/types"
	"github.com/downfa11-org/go-eventfs/util"
)

// Registry is the host-side reduction of the control events appended to a
// stream: which controllers exist and where each subscriber's read offset
// stands. It lives outside the engine; the engine only stores the events
// and this registry's snapshot blob.
type Registry struct {
	mu          sync.RWMutex
	controllers map[uuid.UUID]struct{}
	subscribers map[uuid.UUID]uint64
}

func New() *Registry {
	return &Registry{
		controllers: make(map[uuid.UUID]struct{}),
		subscribers: make(map[uuid.UUID]uint64),
	}
}

// Apply folds one event into the registry. Removals of unknown actors and
// repeated additions are no-ops, so replaying a prefix of the log is safe.
func (r *Registry) Apply(ev events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch ev.Kind {
	case events.ControllerAdded:
		r.controllers[ev.Actor] = struct{}{}
	case events.ControllerRemoved:
		delete(r.controllers, ev.Actor)
	case events.SubscriberAdded, events.SubscriberOffsetModified:
		r.subscribers[ev.Actor] = ev.Offset
	case events.SubscriberRemoved:
		delete(r.subscribers, ev.Actor)
	default:
		util.Warn("ignoring event of unknown kind %d", ev.Kind)
	}
}

// Controllers returns the current controller set, sorted for stable output.
func (r *Registry) Controllers() []uuid.UUID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]uuid.UUID, 0, len(r.controllers))
	for c := range r.controllers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// SubscriberOffset reports a subscriber's offset and whether it is known.
func (r *Registry) SubscriberOffset(id uuid.UUID) (uint64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	off, ok := r.subscribers[id]
	return off, ok
}

// Subscribers returns a copy of the subscriber→offset table.
func (r *Registry) Subscribers() map[uuid.UUID]uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[uuid.UUID]uint64, len(r.subscribers))
	for k, v := range r.subscribers {
		out[k] = v
	}
	return out
}

// Marshal serializes the registry: u32 controller count, 16-byte ids, then
// u32 subscriber count, 16-byte id + u64 offset pairs. Entries are written
// in sorted id order so equal registries serialize identically.
func (r *Registry) Marshal() []byte {
	r.mu.RLock()
	defer r.mu.RUnlock()

	controllers := make([]uuid.UUID, 0, len(r.controllers))
	for c := range r.controllers {
		controllers = append(controllers, c)
	}
	sort.Slice(controllers, func(i, j int) bool { return controllers[i].String() < controllers[j].String() })

	subscribers := make([]uuid.UUID, 0, len(r.subscribers))
	for s := range r.subscribers {
		subscribers = append(subscribers, s)
	}
	sort.Slice(subscribers, func(i, j int) bool { return subscribers[i].String() < subscribers[j].String() })

	buf := make([]byte, 0, 4+16*len(controllers)+4+24*len(subscribers))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(controllers)))
	for _, c := range controllers {
		buf = append(buf, c[:]...)
	}
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(subscribers)))
	for _, s := range subscribers {
		buf = append(buf, s[:]...)
		buf = binary.LittleEndian.AppendUint64(buf, r.subscribers[s])
	}
	return buf
}

// Unmarshal replaces the registry contents with the serialized state.
func (r *Registry) Unmarshal(data []byte) error {
	controllers := make(map[uuid.UUID]struct{})
	subscribers := make(map[uuid.UUID]uint64)

	if len(data) < 4 {
		return fmt.Errorf("unmarshal registry: %w", types.ErrShortBuffer)
	}
	controllerCount := binary.LittleEndian.Uint32(data[0:4])
	off := 4

	for i := uint32(0); i < controllerCount; i++ {
		if len(data) < off+16 {
			return fmt.Errorf("unmarshal registry controller %d: %w", i, types.ErrShortBuffer)
		}
		var id uuid.UUID
		copy(id[:], data[off:off+16])
		controllers[id] = struct{}{}
		off += 16
	}

	if len(data) < off+4 {
		return fmt.Errorf("unmarshal registry: %w", types.ErrShortBuffer)
	}
	subscriberCount := binary.LittleEndian.Uint32(data[off : off+4])
	off += 4

	for i := uint32(0); i < subscriberCount; i++ {
		if len(data) < off+24 {
			return fmt.Errorf("unmarshal registry subscriber %d: %w", i, types.ErrShortBuffer)
		}
		var id uuid.UUID
		copy(id[:], data[off:off+16])
		subscribers[id] = binary.LittleEndian.Uint64(data[off+16 : off+24])
		off += 24
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.controllers = controllers
	r.subscribers = subscribers
	return nil
}

// Save stores the registry into the log's snapshot slot.
func (r *Registry) Save(log types.TopicLog) error {
	if err := log.PutSnapshot(r.Marshal()); err != nil {
		return fmt.Errorf("save registry snapshot: %w", err)
	}
	return nil
}

// Load restores the registry from the log's snapshot slot.
func (r *Registry) Load(log types.TopicLog) error {
	blob, err := log.GetSnapshot()
	if err != nil {
		return fmt.Errorf("load registry snapshot: %w", err)
	}
	return r.Unmarshal(blob)
}
