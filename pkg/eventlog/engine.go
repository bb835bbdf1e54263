package eventlog

import (
	"encoding/binary"
	"fmt"

	"github.com/downfa11-org/go-eventfs/pkg/layout"
	"github.com/downfa11-org/go-eventfs/pkg/memory"
	"github.com/downfa11-org/go-eventfs/pkg/types"
	"github.com/downfa11-org/go-eventfs/util"
)

// Options tune an engine. Zero values fall back to the default layout, the
// system clock, and no compression.
type Options struct {
	Layout      *layout.Layout
	Clock       Clock
	Compression string
}

func (o *Options) normalize() {
	if o.Layout == nil {
		o.Layout = layout.Default()
	}
	if o.Clock == nil {
		o.Clock = SystemClock
	}
	if o.Compression == "" {
		o.Compression = "none"
	}
}

// Engine is the single entry point to one event stream: a writer, a reader,
// the persisted header, and the free-memory snapshot slot. One logical
// writer at a time; Append is not safe to call concurrently.
type Engine struct {
	region      memory.Region
	layout      *layout.Layout
	header      types.TopicHeaderBlock
	compression string

	writer *Writer
	reader *Reader
}

var _ types.TopicLog = (*Engine)(nil)

// GetOrCreate opens the stream in region, formatting it first if the magic
// number probe shows the region was never initialized. A valid magic number
// is the only resume criterion; there is no clean-shutdown marker.
func GetOrCreate(region memory.Region, streamName string, opts Options) (*Engine, error) {
	opts.normalize()

	ok, err := probeMagic(region)
	if err != nil {
		return nil, err
	}
	if ok {
		return open(region, opts)
	}
	return create(region, streamName, opts)
}

// Open resumes an existing stream and refuses to format: a region without
// the magic number is ErrNoLog.
func Open(region memory.Region, opts Options) (*Engine, error) {
	opts.normalize()

	ok, err := probeMagic(region)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoLog
	}
	return open(region, opts)
}

func create(region memory.Region, streamName string, opts Options) (*Engine, error) {
	header := types.TopicHeaderBlock{
		EventStreamName: streamName,
		FirstMessagePtr: 0,
		BinaryVersion:   types.CurrentBinaryVersion,
	}

	if err := writeU64(region, layout.MagicOffset, layout.Magic); err != nil {
		return nil, fmt.Errorf("write magic number: %w", err)
	}
	if err := writeU64(region, layout.HeightOffset, 0); err != nil {
		return nil, fmt.Errorf("write zero height: %w", err)
	}
	if err := writeHeader(region, &header); err != nil {
		return nil, err
	}

	util.Info("created event stream %q (binary version %d)", streamName, header.BinaryVersion)
	return newEngine(region, header, 0, opts), nil
}

func open(region memory.Region, opts Options) (*Engine, error) {
	header, err := readHeader(region)
	if err != nil {
		return nil, err
	}
	height, err := readU64(region, layout.HeightOffset)
	if err != nil {
		return nil, fmt.Errorf("read height: %w", err)
	}

	util.Debug("resuming event stream %q at height %d", header.EventStreamName, height)
	return newEngine(region, header, height, opts), nil
}

func newEngine(region memory.Region, header types.TopicHeaderBlock, height uint64, opts Options) *Engine {
	return &Engine{
		region:      region,
		layout:      opts.Layout,
		header:      header,
		compression: opts.Compression,
		writer:      NewWriter(region, opts.Layout, opts.Clock, height),
		reader:      NewReader(region, opts.Layout),
	}
}

// Header returns the stream header loaded or created at open time.
func (e *Engine) Header() types.TopicHeaderBlock {
	return e.header
}

// Height re-reads the persisted cursor, so it reflects durable state rather
// than the in-process writer.
func (e *Engine) Height() (uint64, error) {
	h, err := readU64(e.region, layout.HeightOffset)
	if err != nil {
		return 0, fmt.Errorf("read height: %w", err)
	}
	return h, nil
}

// Append stores payload and returns its identifier. The index record and
// payload land before the height slot is updated: a crash in between leaves
// the height understated, and the next append simply overwrites the
// uncommitted record.
func (e *Engine) Append(payload []byte) (uint64, error) {
	data, err := util.CompressMessage(payload, e.compression)
	if err != nil {
		return 0, fmt.Errorf("encode payload: %w", err)
	}

	idx, err := e.writer.Append(data)
	if err != nil {
		return 0, err
	}

	if err := writeU64(e.region, layout.HeightOffset, e.writer.BlockOffset()); err != nil {
		return 0, fmt.Errorf("persist height %d: %w", e.writer.BlockOffset(), err)
	}
	return idx.StartIdx, nil
}

func (e *Engine) ReadOne(id uint64) (types.Message, error) {
	msg, err := e.reader.ReadOne(id)
	if err != nil {
		return types.Message{}, err
	}

	payload, err := util.DecompressMessage(msg.Payload, e.compression)
	if err != nil {
		return types.Message{}, fmt.Errorf("decode payload of message %d: %w", id, err)
	}
	msg.Payload = payload
	return msg, nil
}

// ReadRange carries the reader's single-block-stride contract: see
// Reader.ReadRange.
func (e *Engine) ReadRange(start, count uint64) ([]types.Message, error) {
	messages, err := e.reader.ReadRange(start, count)
	if err != nil {
		return nil, err
	}

	for i := range messages {
		payload, err := util.DecompressMessage(messages[i].Payload, e.compression)
		if err != nil {
			return nil, fmt.Errorf("decode payload of message %d: %w", messages[i].ID, err)
		}
		messages[i].Payload = payload
	}
	return messages, nil
}

// PutSnapshot replaces the free-memory slot's blob wholesale.
func (e *Engine) PutSnapshot(blob []byte) error {
	if uint64(len(blob)) > e.layout.FreeSlotCapacity {
		return fmt.Errorf("snapshot of %d bytes exceeds slot capacity %d: %w",
			len(blob), e.layout.FreeSlotCapacity, ErrPayloadTooLarge)
	}

	if err := writeU64(e.region, int64(e.layout.FreeSlotSizeOffset), uint64(len(blob))); err != nil {
		return fmt.Errorf("write snapshot size: %w", err)
	}
	if len(blob) > 0 {
		if _, err := e.region.WriteAt(blob, int64(e.layout.FreeSlotDataOffset)); err != nil {
			return fmt.Errorf("write snapshot blob: %w", err)
		}
	}
	return nil
}

// GetSnapshot returns the free-memory slot's blob. A slot that was never
// stored reads back with size zero and is reported as ErrNoSnapshot.
func (e *Engine) GetSnapshot() ([]byte, error) {
	size, err := readU64(e.region, int64(e.layout.FreeSlotSizeOffset))
	if err != nil {
		return nil, fmt.Errorf("read snapshot size: %w", err)
	}
	if size == 0 {
		return nil, ErrNoSnapshot
	}
	if size > e.layout.FreeSlotCapacity {
		return nil, fmt.Errorf("snapshot size %d exceeds slot capacity %d: %w",
			size, e.layout.FreeSlotCapacity, types.ErrCorruptRecord)
	}

	blob := make([]byte, size)
	if _, err := e.region.ReadAt(blob, int64(e.layout.FreeSlotDataOffset)); err != nil {
		return nil, fmt.Errorf("read snapshot blob: %w", err)
	}
	return blob, nil
}

func probeMagic(region memory.Region) (bool, error) {
	magic, err := readU64(region, layout.MagicOffset)
	if err != nil {
		return false, fmt.Errorf("probe magic number: %w", err)
	}
	return magic == layout.Magic, nil
}

func writeHeader(region memory.Region, header *types.TopicHeaderBlock) error {
	buf := header.Marshal()
	if len(buf) > types.MaxTopicHeaderSize {
		// Stream names long enough to overflow the header area are a
		// caller contract violation, not a runtime condition.
		panic(fmt.Sprintf("topic header of %d bytes exceeds %d-byte header area", len(buf), types.MaxTopicHeaderSize))
	}

	if err := writeU64(region, layout.HeaderSizeOffset, uint64(len(buf))); err != nil {
		return fmt.Errorf("write header size: %w", err)
	}
	if _, err := region.WriteAt(buf, layout.HeaderDataOffset); err != nil {
		return fmt.Errorf("write header record: %w", err)
	}
	return nil
}

func readHeader(region memory.Region) (types.TopicHeaderBlock, error) {
	var header types.TopicHeaderBlock

	size, err := readU64(region, layout.HeaderSizeOffset)
	if err != nil {
		return header, fmt.Errorf("read header size: %w", err)
	}
	if size > types.MaxTopicHeaderSize {
		return header, fmt.Errorf("header size %d exceeds %d-byte header area: %w",
			size, types.MaxTopicHeaderSize, types.ErrCorruptRecord)
	}

	buf := make([]byte, size)
	if _, err := region.ReadAt(buf, layout.HeaderDataOffset); err != nil {
		return header, fmt.Errorf("read header record: %w", err)
	}
	if err := header.Unmarshal(buf); err != nil {
		return header, fmt.Errorf("decode header record: %w", err)
	}
	return header, nil
}

func writeU64(region memory.Region, off int64, v uint64) error {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, v)
	_, err := region.WriteAt(buf, off)
	return err
}

func readU64(region memory.Region, off int64) (uint64, error) {
	buf := make([]byte, 8)
	if _, err := region.ReadAt(buf, off); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf), nil
}
