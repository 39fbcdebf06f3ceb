package notify

import (
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/displaykit/network/pkg/logging"
)

// testLogger writes to /dev/null so registry chatter stays out of test output.
func testLogger(t *testing.T) *logging.ColoredLogger {
	t.Helper()
	logger, err := logging.NewFileLogger(logging.ComponentGeneral, os.DevNull, false)
	if err != nil {
		t.Fatalf("Failed to create test logger: %v", err)
	}
	return logger
}

// stubChannel is a Channel whose writes always succeed. It must not be
// zero-size: the registry tells channels apart by interface identity,
// and zero-size allocations can share one address.
type stubChannel struct {
	id int
}

func (*stubChannel) Write(p []byte) error { return nil }

func TestRegisterAndStatus(t *testing.T) {
	r := NewRegistry(testLogger(t))
	ch := &stubChannel{}

	r.Register("lobby-1", ch)

	st := r.Status("lobby-1")
	if !st.Connected {
		t.Error("Expected display to be connected")
	}
	if st.Connections != 1 {
		t.Errorf("Expected 1 connection, got %d", st.Connections)
	}
	if st.Key != "lobby-1" {
		t.Errorf("Expected key 'lobby-1', got %q", st.Key)
	}

	unknown := r.Status("never-seen")
	if unknown.Connected || unknown.Connections != 0 {
		t.Errorf("Expected unknown key to be disconnected, got %+v", unknown)
	}
}

func TestRegisterAdditive(t *testing.T) {
	r := NewRegistry(testLogger(t))
	first := &stubChannel{id: 1}
	second := &stubChannel{id: 2}

	r.Register("lobby-1", first)
	r.Register("lobby-1", second)

	if st := r.Status("lobby-1"); st.Connections != 2 {
		t.Errorf("Expected 2 connections, got %d", st.Connections)
	}

	// Same channel again must not grow the set.
	r.Register("lobby-1", first)
	if st := r.Status("lobby-1"); st.Connections != 2 {
		t.Errorf("Expected duplicate registration to be a no-op, got %d connections", st.Connections)
	}
}

func TestRegisterIgnoresInvalidInput(t *testing.T) {
	r := NewRegistry(testLogger(t))

	r.Register("", &stubChannel{})
	r.Register("lobby-1", nil)

	if got := len(r.Connected()); got != 0 {
		t.Errorf("Expected no registrations, got %d", got)
	}
}

func TestUnregisterIdempotent(t *testing.T) {
	r := NewRegistry(testLogger(t))
	ch := &stubChannel{id: 1}
	other := &stubChannel{id: 2}

	r.Register("lobby-1", ch)
	r.Register("lobby-1", other)

	r.Unregister("lobby-1", ch)
	r.Unregister("lobby-1", ch) // second removal of same channel
	r.Unregister("lobby-1", &stubChannel{})
	r.Unregister("never-seen", ch)

	if st := r.Status("lobby-1"); st.Connections != 1 {
		t.Errorf("Expected 1 connection to survive, got %d", st.Connections)
	}
}

func TestUnregisterPrunesEmptyKey(t *testing.T) {
	r := NewRegistry(testLogger(t))
	ch := &stubChannel{}

	r.Register("lobby-1", ch)
	r.Unregister("lobby-1", ch)

	if st := r.Status("lobby-1"); st.Connected {
		t.Error("Expected display to be disconnected after last channel removed")
	}
	if got := len(r.Connected()); got != 0 {
		t.Errorf("Expected no connected displays, got %d", got)
	}

	// The key must come back cleanly after a fresh registration.
	r.Register("lobby-1", ch)
	if st := r.Status("lobby-1"); !st.Connected || st.Connections != 1 {
		t.Errorf("Expected display reconnected with 1 connection, got %+v", st)
	}
}

func TestConnectedSnapshotSorted(t *testing.T) {
	r := NewRegistry(testLogger(t))

	r.Register("kitchen", &stubChannel{})
	r.Register("atrium", &stubChannel{})
	r.Register("atrium", &stubChannel{})
	r.Register("lobby-1", &stubChannel{})

	statuses := r.Connected()
	if len(statuses) != 3 {
		t.Fatalf("Expected 3 connected displays, got %d", len(statuses))
	}

	expectedOrder := []string{"atrium", "kitchen", "lobby-1"}
	for i, expected := range expectedOrder {
		if statuses[i].Key != expected {
			t.Errorf("Expected key %q at position %d, got %q", expected, i, statuses[i].Key)
		}
	}
	if statuses[0].Connections != 2 {
		t.Errorf("Expected atrium to have 2 connections, got %d", statuses[0].Connections)
	}
}

func TestReset(t *testing.T) {
	r := NewRegistry(testLogger(t))

	r.Register("lobby-1", &stubChannel{})
	r.Register("atrium", &stubChannel{})
	r.Reset()

	if got := len(r.Connected()); got != 0 {
		t.Errorf("Expected empty registry after reset, got %d displays", got)
	}
	if st := r.Status("lobby-1"); st.Connected {
		t.Error("Expected display disconnected after reset")
	}

	// Registry stays usable after reset.
	r.Register("lobby-1", &stubChannel{})
	if st := r.Status("lobby-1"); !st.Connected {
		t.Error("Expected registration to work after reset")
	}
}

func TestConcurrentRegistryAccess(t *testing.T) {
	r := NewRegistry(testLogger(t))

	const displays = 8
	const perDisplay = 25

	var wg sync.WaitGroup
	for d := 0; d < displays; d++ {
		key := fmt.Sprintf("display-%d", d)
		for c := 0; c < perDisplay; c++ {
			wg.Add(1)
			go func(key string) {
				defer wg.Done()
				ch := &stubChannel{}
				r.Register(key, ch)
				r.Status(key)
				r.Connected()
				r.Unregister(key, ch)
			}(key)
		}
	}
	wg.Wait()

	if got := len(r.Connected()); got != 0 {
		t.Errorf("Expected all displays pruned after churn, got %d", got)
	}
}
