package eventlog

import "errors"

var (
	// ErrPayloadTooLarge means the payload exceeds the target zone's
	// capacity: the free-memory slot's fixed size, or the remaining
	// identifier space of the data zone.
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrRecordNotFound means the identifier does not name a written index
	// record: a never-written slot, or a slot interior to a multi-block
	// message.
	ErrRecordNotFound = errors.New("record not found")

	// ErrNoSnapshot means the free-memory slot has never been stored.
	ErrNoSnapshot = errors.New("no snapshot stored")

	// ErrNoLog means the region carries no magic number; Open refuses to
	// resume it, use GetOrCreate to format one.
	ErrNoLog = errors.New("region holds no event log")
)
