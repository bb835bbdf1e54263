package events

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/downfa11-org/go-eventfs/pkg/types"
)

// Kind tags the control/subscription facts a host records about its stream.
type Kind uint8

const (
	ControllerAdded Kind = iota + 1
	ControllerRemoved
	SubscriberAdded
	SubscriberRemoved
	SubscriberOffsetModified
)

var ErrUnknownKind = errors.New("unknown event kind")

func (k Kind) String() string {
	switch k {
	case ControllerAdded:
		return "controller-added"
	case ControllerRemoved:
		return "controller-removed"
	case SubscriberAdded:
		return "subscriber-added"
	case SubscriberRemoved:
		return "subscriber-removed"
	case SubscriberOffsetModified:
		return "subscriber-offset-modified"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// hasOffset reports whether the kind carries an offset field on the wire.
func (k Kind) hasOffset() bool {
	return k == SubscriberAdded || k == SubscriberOffsetModified
}

// Event is a plain data contract; the engine stores it like any other
// payload and applies no logic to it. Actor identifies the controller or
// subscriber; Offset is meaningful only for kinds that carry one.
type Event struct {
	Kind   Kind
	Actor  uuid.UUID
	Offset uint64
}

// Encode serializes the event: 1-byte kind, 16-byte actor, and for
// offset-carrying kinds a little-endian u64 offset.
func (e Event) Encode() ([]byte, error) {
	switch e.Kind {
	case ControllerAdded, ControllerRemoved, SubscriberAdded, SubscriberRemoved, SubscriberOffsetModified:
	default:
		return nil, fmt.Errorf("encode event: %w: %d", ErrUnknownKind, e.Kind)
	}

	size := 1 + 16
	if e.Kind.hasOffset() {
		size += 8
	}

	buf := make([]byte, size)
	buf[0] = byte(e.Kind)
	copy(buf[1:17], e.Actor[:])
	if e.Kind.hasOffset() {
		binary.LittleEndian.PutUint64(buf[17:], e.Offset)
	}
	return buf, nil
}

// Decode parses an event encoded by Encode.
func Decode(data []byte) (Event, error) {
	if len(data) < 17 {
		return Event{}, fmt.Errorf("decode event: %w", types.ErrShortBuffer)
	}

	e := Event{Kind: Kind(data[0])}
	switch e.Kind {
	case ControllerAdded, ControllerRemoved, SubscriberAdded, SubscriberRemoved, SubscriberOffsetModified:
	default:
		return Event{}, fmt.Errorf("decode event: %w: %d", ErrUnknownKind, data[0])
	}

	copy(e.Actor[:], data[1:17])
	if e.Kind.hasOffset() {
		if len(data) < 25 {
			return Event{}, fmt.Errorf("decode %s event: %w", e.Kind, types.ErrShortBuffer)
		}
		e.Offset = binary.LittleEndian.Uint64(data[17:])
	}
	return e, nil
}
