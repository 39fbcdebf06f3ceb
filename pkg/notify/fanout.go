package notify

import (
	"go.uber.org/zap"

	"github.com/displaykit/network/pkg/logging"
)

// Fanout serializes events and pushes them to registered channels. Delivery
// failures never reach callers: a failed channel is pruned from the registry
// and the event is simply not seen by that connection.
type Fanout struct {
	registry *Registry
	logger   *logging.ColoredLogger
}

// NewFanout creates a fanout engine over registry.
func NewFanout(registry *Registry, logger *logging.ColoredLogger) *Fanout {
	if logger == nil {
		logger, _ = logging.NewDefaultLogger(logging.ComponentFanout)
	}
	return &Fanout{registry: registry, logger: logger}
}

// Publish sends one event to every channel registered for key. It reports
// whether at least one write succeeded. An unknown key, a payload that does
// not serialize to JSON, or the loss of every channel all yield false, each
// with a log line; none of them is an error to the caller.
func (f *Fanout) Publish(key, event string, payload any) bool {
	if !f.registry.Status(key).Connected {
		f.logger.ComponentDebug(logging.ComponentFanout, "No connections for display",
			zap.String("display", key),
			zap.String("event", event))
		return false
	}

	frame, err := EncodeFrame(event, payload)
	if err != nil {
		f.logger.ComponentError(logging.ComponentFanout, "Event payload not serializable",
			zap.String("display", key),
			zap.String("event", event),
			zap.Error(err))
		return false
	}

	return f.deliver(key, event, frame)
}

// Broadcast sends one event to every connected display and returns the
// number of displays where at least one write succeeded. The frame is
// serialized once and shared across all keys; one display's dead
// connections never affect delivery to the others.
func (f *Fanout) Broadcast(event string, payload any) int {
	frame, err := EncodeFrame(event, payload)
	if err != nil {
		f.logger.ComponentError(logging.ComponentFanout, "Event payload not serializable",
			zap.String("event", event),
			zap.Error(err))
		return 0
	}

	keys := f.registry.keys()
	reached := 0
	for _, key := range keys {
		if f.deliver(key, event, frame) {
			reached++
		}
	}

	f.logger.ComponentInfo(logging.ComponentFanout, "Broadcast complete",
		zap.String("event", event),
		zap.Int("reached", reached),
		zap.Int("targets", len(keys)))
	return reached
}

// deliver writes frame to a snapshot of the channels registered for key.
// Channels whose write fails are unregistered on the spot, which also
// drops the key once its last channel is gone. Reports whether at least
// one write succeeded.
func (f *Fanout) deliver(key, event string, frame []byte) bool {
	channels := f.registry.snapshot(key)
	delivered := 0
	for _, ch := range channels {
		if err := ch.Write(frame); err != nil {
			f.registry.Unregister(key, ch)
			f.logger.ComponentWarn(logging.ComponentFanout, "Dropping dead display connection",
				zap.String("display", key),
				zap.String("event", event),
				zap.Error(err))
			continue
		}
		delivered++
	}

	f.logger.ComponentDebug(logging.ComponentFanout, "Event delivered",
		zap.String("display", key),
		zap.String("event", event),
		zap.Int("delivered", delivered),
		zap.Int("targets", len(channels)))
	return delivered > 0
}
