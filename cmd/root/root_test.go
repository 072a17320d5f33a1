package root_test

import (
	"testing"

	"fjacquet/fincat/cmd/root"

	"github.com/stretchr/testify/assert"
)

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "fincat", root.Cmd.Use)
	assert.Contains(t, root.Cmd.Short, "Categorize financial transactions")
	assert.Contains(t, root.Cmd.Long, "keyword rules")
	assert.Contains(t, root.Cmd.Long, "budgets")
	assert.NotNil(t, root.Cmd.Run)
	assert.NotNil(t, root.Cmd.PersistentPreRun)
}

func TestRootCommand_Run(t *testing.T) {
	assert.NotPanics(t, func() {
		root.Cmd.Run(root.Cmd, []string{})
	})
}

func TestLogger(t *testing.T) {
	assert.NotNil(t, root.Logger())
}

func TestGlobalVariables_Initialization(t *testing.T) {
	assert.NotNil(t, root.Log)
	assert.NotNil(t, root.Cmd)
}
