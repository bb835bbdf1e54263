package types

// Message is one entry read back from the log. ID is the starting data-zone
// block number, the same value Append returned for it.
type Message struct {
	ID        uint64
	Payload   []byte
	Timestamp uint64
}

func (m Message) String() string {
	return string(m.Payload)
}
