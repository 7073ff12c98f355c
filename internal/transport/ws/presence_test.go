package ws_test

import (
	"sync"
	"testing"

	"github.com/dkovac/chatline/internal/transport/ws"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSession struct{ name string }

func (s *stubSession) Deliver(*ws.Event) {}

func TestRegistryRegisterAndLookup(t *testing.T) {
	reg := ws.NewRegistry()
	userID := uuid.New()
	sess := &stubSession{name: "a"}

	reg.Register(userID, sess)

	got, ok := reg.Lookup(userID)
	require.True(t, ok)
	assert.Same(t, sess, got)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistryLookupAbsent(t *testing.T) {
	reg := ws.NewRegistry()

	_, ok := reg.Lookup(uuid.New())
	assert.False(t, ok)
}

func TestRegistryLastConnectWins(t *testing.T) {
	reg := ws.NewRegistry()
	userID := uuid.New()
	old := &stubSession{name: "old"}
	newer := &stubSession{name: "new"}

	reg.Register(userID, old)
	reg.Register(userID, newer)

	got, ok := reg.Lookup(userID)
	require.True(t, ok)
	assert.Same(t, newer, got)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistryUnregisterByHandle(t *testing.T) {
	reg := ws.NewRegistry()
	userID := uuid.New()
	sess := &stubSession{name: "a"}

	reg.Register(userID, sess)
	reg.Unregister(sess)

	_, ok := reg.Lookup(userID)
	assert.False(t, ok)
	assert.Equal(t, 0, reg.Len())
}

// A disconnect for an old connection arriving after the user already
// reconnected must not evict the newer session.
func TestRegistryStaleUnregisterIsNoOp(t *testing.T) {
	reg := ws.NewRegistry()
	userID := uuid.New()
	old := &stubSession{name: "old"}
	newer := &stubSession{name: "new"}

	reg.Register(userID, old)
	reg.Register(userID, newer) // reconnect before old's disconnect arrives
	reg.Unregister(old)         // stale disconnect

	got, ok := reg.Lookup(userID)
	require.True(t, ok)
	assert.Same(t, newer, got)
}

func TestRegistryUnregisterUnknownHandle(t *testing.T) {
	reg := ws.NewRegistry()
	reg.Register(uuid.New(), &stubSession{name: "a"})

	reg.Unregister(&stubSession{name: "never-registered"})

	assert.Equal(t, 1, reg.Len())
}

func TestRegistryConcurrentAccess(t *testing.T) {
	reg := ws.NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			userID := uuid.New()
			sess := &stubSession{}
			reg.Register(userID, sess)
			reg.Lookup(userID)
			reg.Unregister(sess)
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, reg.Len())
}
