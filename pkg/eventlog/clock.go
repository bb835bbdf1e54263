package eventlog

import "time"

// Clock supplies the timestamp stamped into each index record. The engine
// derives no ordering from it.
type Clock func() uint64

// SystemClock is the default: wall-clock nanoseconds.
func SystemClock() uint64 {
	return uint64(time.Now().UnixNano())
}
