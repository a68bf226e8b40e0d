package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandsAreIndependent(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")

	// each root command builds and owns its own App wiring; running one
	// must not leave state behind that a second instance picks up
	first := NewRootCmd()
	first.SetArgs([]string{"whoami"})
	require.NoError(t, first.Execute())

	second := NewRootCmd()
	second.SetArgs([]string{"whoami"})
	require.NoError(t, second.Execute())
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := NewRootCmd()

	names := make(map[string]bool)
	for _, sub := range root.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"login", "logout", "whoami", "areas", "select-area", "orders", "pay", "unpaid", "summary"} {
		assert.True(t, names[want], want)
	}
}
