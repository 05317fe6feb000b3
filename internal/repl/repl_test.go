package repl

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codefathom/fathom/internal/session"
	"github.com/codefathom/fathom/internal/storage/sqlite"
)

func newTestREPL(t *testing.T) *REPL {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "fathom.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	mgr, err := session.NewManager(&session.Config{Store: store})
	require.NoError(t, err)

	r, err := New(&Config{Manager: mgr, SessionID: "s1"})
	require.NoError(t, err)
	return r
}

func TestNewRequiresManagerAndSession(t *testing.T) {
	_, err := New(&Config{})
	assert.Error(t, err)

	store, err := sqlite.New(filepath.Join(t.TempDir(), "fathom.db"))
	require.NoError(t, err)
	defer store.Close()
	mgr, err := session.NewManager(&session.Config{Store: store})
	require.NoError(t, err)

	_, err = New(&Config{Manager: mgr})
	assert.Error(t, err)
}

func TestCommandsAreRegistered(t *testing.T) {
	r := newTestREPL(t)

	for _, name := range []string{
		"help", "status", "advance", "view", "focus", "unfocus",
		"back", "shortcuts", "show", "diagnose", "recover",
		"hint", "history", "exit",
	} {
		_, ok := r.commands[name]
		assert.True(t, ok, "command %q not registered", name)
	}
}

func TestProcessInputUnknownCommandIsNotAnError(t *testing.T) {
	r := newTestREPL(t)
	assert.NoError(t, r.processInput("frobnicate"))
	assert.NoError(t, r.processInput("   "))
}
