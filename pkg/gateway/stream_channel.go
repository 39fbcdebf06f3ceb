package gateway

import (
	"io"
	"net/http"
	"sync"

	"github.com/displaykit/network/pkg/errors"
)

// streamChannel adapts one server-sent-event response to notify.Channel.
// Frames land on the wire already formatted, so Write only has to copy
// bytes and flush. The mutex serializes fanout writes with the handler's
// own keep-alive comments.
type streamChannel struct {
	mu      sync.Mutex
	w       io.Writer
	flusher http.Flusher
}

// newStreamChannel wraps w for streaming. It fails when the response
// writer cannot flush, which means an intermediary is buffering the
// response and events would never reach the display.
func newStreamChannel(w http.ResponseWriter) (*streamChannel, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, errors.New("response writer does not support streaming")
	}
	return &streamChannel{w: w, flusher: flusher}, nil
}

func (c *streamChannel) Write(p []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.w.Write(p); err != nil {
		return err
	}
	c.flusher.Flush()
	return nil
}

// comment writes an SSE comment line. EventSource clients ignore comments,
// which makes them the handshake and keep-alive vehicle.
func (c *streamChannel) comment(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := io.WriteString(c.w, ": "+text+"\n\n"); err != nil {
		return err
	}
	c.flusher.Flush()
	return nil
}
