// Package notify tracks which displays hold live push connections and fans
// business events out to them. The registry maps a display key to the set of
// open channels for that display; the fanout engine serializes an event once
// and writes it to every channel, pruning the ones that fail.
package notify

// Channel is a single live subscriber connection. Write delivers one
// complete wire frame; a non-nil error marks the connection dead and the
// registry drops it. Implementations must be safe for concurrent Write
// calls and must be comparable, since the registry keeps them in per-key
// sets (all in-tree implementations are pointers).
type Channel interface {
	Write(p []byte) error
}

// Status reports the connection state of a single display key.
type Status struct {
	Key         string
	Connected   bool
	Connections int
}
