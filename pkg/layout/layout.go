package layout

import (
	"github.com/downfa11-org/go-eventfs/pkg/types"
)

const (
	// BlockSize is the data-zone allocation unit.
	BlockSize = 512

	// Magic marks a formatted region; anything else at offset 0 means the
	// region has never been initialized.
	Magic uint64 = 123246369

	// Header zone: magic(8) + height(8) + header size(8) + header bytes.
	MagicOffset      = 0
	HeightOffset     = 8
	HeaderSizeOffset = 16
	HeaderDataOffset = 24

	headerZoneEnd = HeaderDataOffset + types.MaxTopicHeaderSize
)

const (
	// DefaultFreeSlotCapacity is the snapshot slot's blob capacity.
	DefaultFreeSlotCapacity = 1 << 20

	// DefaultIndexSlots bounds the identifier space: one slot per
	// allocatable data block.
	DefaultIndexSlots = 65536
)

// Geometry holds the two tunable zone sizes; everything else in the layout
// is fixed by the v1 format.
type Geometry struct {
	FreeSlotCapacity uint64
	IndexSlots       uint64
}

// Layout derives every region offset from a Geometry. All fields are fixed
// after New; the layout must match the one the region was formatted with.
type Layout struct {
	Geometry

	FreeSlotSizeOffset uint64
	FreeSlotDataOffset uint64
	IndexZoneOffset    uint64
	DataZoneOffset     uint64
}

func New(g Geometry) *Layout {
	if g.FreeSlotCapacity == 0 {
		g.FreeSlotCapacity = DefaultFreeSlotCapacity
	}
	if g.IndexSlots == 0 {
		g.IndexSlots = DefaultIndexSlots
	}

	l := &Layout{Geometry: g}
	l.FreeSlotSizeOffset = headerZoneEnd
	l.FreeSlotDataOffset = l.FreeSlotSizeOffset + 8
	l.IndexZoneOffset = l.FreeSlotDataOffset + g.FreeSlotCapacity
	l.DataZoneOffset = l.IndexZoneOffset + g.IndexSlots*types.IndexBlockSize
	return l
}

func Default() *Layout {
	return New(Geometry{})
}

// IndexSlotOffset returns the byte offset of index slot n.
func (l *Layout) IndexSlotOffset(n uint64) uint64 {
	return l.IndexZoneOffset + n*types.IndexBlockSize
}

// DataBlockOffset returns the byte offset of data-zone block n.
func (l *Layout) DataBlockOffset(n uint64) uint64 {
	return l.DataZoneOffset + n*BlockSize
}

// Size returns the total region length the layout addresses.
func (l *Layout) Size() uint64 {
	return l.DataZoneOffset + l.IndexSlots*BlockSize
}

// BlockCount returns how many whole blocks byteLen occupies, rounded up.
// A zero-length payload occupies zero blocks.
func BlockCount(byteLen uint64) uint64 {
	return (byteLen + BlockSize - 1) / BlockSize
}
