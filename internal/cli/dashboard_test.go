package cli

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/term"

	"github.com/iritop/iritop/internal/config"
	"github.com/iritop/iritop/internal/errors"
)

func TestBuildModel(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Node = "http://10.0.0.5:14265"

	model, err := buildModel(cfg)
	require.NoError(t, err)
	assert.NoError(t, model.Err())

	// Before the first poll lands, the waiting screen names the node
	view := model.View()
	assert.Contains(t, view, "iritop")
	assert.Contains(t, view, "http://10.0.0.5:14265")
}

func TestBuildModelWithCredentials(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Username = "admin"
	cfg.Password = "hunter2"

	_, err := buildModel(cfg)
	require.NoError(t, err)
}

func TestBuildModelRejectsUnparseableNode(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Node = "://not-a-url"

	_, err := buildModel(cfg)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestDashboardCommandNeedsTerminal(t *testing.T) {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		t.Skip("test binary has a real terminal attached")
	}

	err := dashboardCommand(config.DefaultConfig())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrTerm))
}
