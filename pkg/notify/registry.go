package notify

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/displaykit/network/pkg/logging"
)

// connInfo carries per-registration bookkeeping. The id only exists so log
// lines about one physical connection can be correlated.
type connInfo struct {
	id    string
	since time.Time
}

// Registry is the process-wide map of display key to the set of open
// channels for that display. A single lock guards every read-modify-write;
// nothing network-facing runs while it is held.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]map[Channel]connInfo
	logger  *logging.ColoredLogger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *logging.ColoredLogger) *Registry {
	if logger == nil {
		logger, _ = logging.NewDefaultLogger(logging.ComponentRegistry)
	}
	return &Registry{
		entries: make(map[string]map[Channel]connInfo),
		logger:  logger,
	}
}

// Register adds ch to the set for key, creating the entry on first use.
// Registering the same channel twice under the same key is a no-op. An
// empty key or nil channel is ignored.
func (r *Registry) Register(key string, ch Channel) {
	if key == "" || ch == nil {
		r.logger.ComponentWarn(logging.ComponentRegistry, "Ignoring registration with empty key or nil channel")
		return
	}

	r.mu.Lock()
	set, ok := r.entries[key]
	if !ok {
		set = make(map[Channel]connInfo)
		r.entries[key] = set
	}
	if _, exists := set[ch]; exists {
		r.mu.Unlock()
		r.logger.ComponentDebug(logging.ComponentRegistry, "Channel already registered",
			zap.String("display", key))
		return
	}
	info := connInfo{id: uuid.New().String(), since: time.Now()}
	set[ch] = info
	count := len(set)
	r.mu.Unlock()

	r.logger.ComponentInfo(logging.ComponentRegistry, "Display connection registered",
		zap.String("display", key),
		zap.String("conn_id", info.id),
		zap.Int("connections", count))
}

// Unregister removes ch from the set for key and deletes the key entry
// when its set becomes empty. Unknown keys and channels are no-ops, so
// racing disconnect paths can both call it safely.
func (r *Registry) Unregister(key string, ch Channel) {
	r.mu.Lock()
	set, ok := r.entries[key]
	if !ok {
		r.mu.Unlock()
		return
	}
	info, ok := set[ch]
	if !ok {
		r.mu.Unlock()
		return
	}
	delete(set, ch)
	remaining := len(set)
	if remaining == 0 {
		delete(r.entries, key)
	}
	r.mu.Unlock()

	r.logger.ComponentInfo(logging.ComponentRegistry, "Display connection removed",
		zap.String("display", key),
		zap.String("conn_id", info.id),
		zap.Int("connections", remaining))
}

// Status reports whether key has at least one live connection.
func (r *Registry) Status(key string) Status {
	r.mu.RLock()
	count := len(r.entries[key])
	r.mu.RUnlock()

	return Status{Key: key, Connected: count > 0, Connections: count}
}

// Connected returns one Status per key with at least one live connection,
// sorted by key. The slice is a snapshot; it does not track later changes.
func (r *Registry) Connected() []Status {
	r.mu.RLock()
	out := make([]Status, 0, len(r.entries))
	for key, set := range r.entries {
		out = append(out, Status{Key: key, Connected: true, Connections: len(set)})
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Reset drops every registration. Channels are not closed; callers own
// connection shutdown. Used on gateway shutdown and in tests.
func (r *Registry) Reset() {
	r.mu.Lock()
	count := len(r.entries)
	r.entries = make(map[string]map[Channel]connInfo)
	r.mu.Unlock()

	if count > 0 {
		r.logger.ComponentDebug(logging.ComponentRegistry, "Registry reset",
			zap.Int("keys_dropped", count))
	}
}

// snapshot returns the channels currently registered for key. Writes happen
// against the snapshot, never under the registry lock.
func (r *Registry) snapshot(key string) []Channel {
	r.mu.RLock()
	set := r.entries[key]
	channels := make([]Channel, 0, len(set))
	for ch := range set {
		channels = append(channels, ch)
	}
	r.mu.RUnlock()
	return channels
}

// keys returns every key with at least one live connection.
func (r *Registry) keys() []string {
	r.mu.RLock()
	out := make([]string, 0, len(r.entries))
	for key := range r.entries {
		out = append(out, key)
	}
	r.mu.RUnlock()
	return out
}
