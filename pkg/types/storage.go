package types

// TopicLog is the surface the engine exposes to hosts: append-only message
// storage plus one snapshot slot for host state.
type TopicLog interface {
	Append(payload []byte) (uint64, error)
	ReadOne(id uint64) (Message, error)
	ReadRange(start, count uint64) ([]Message, error)
	Height() (uint64, error)

	PutSnapshot(blob []byte) error
	GetSnapshot() ([]byte, error)
}
