package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iritop/iritop/internal/config"
	"github.com/iritop/iritop/internal/errors"
)

const fileConfigYAML = `version: 1
node: http://10.1.2.3:14265
poll_delay: 3s
blink_delay: 400ms
sort: 2
on_auth_error: continue
`

// isolateConfigSearch points the cwd and home search locations at an
// empty temp directory so tests control exactly which config resolves.
func isolateConfigSearch(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmp))
	t.Cleanup(func() { _ = os.Chdir(cwd) })
	return tmp
}

func writeTestConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRootCommandStructure(t *testing.T) {
	assert.Equal(t, "iritop", rootCmd.Use)
	assert.True(t, rootCmd.SilenceUsage, "usage noise would bury the error block")
	assert.True(t, rootCmd.SilenceErrors, "Execute renders errors exactly once")
}

func TestRootCommandFlags(t *testing.T) {
	tests := []struct {
		name     string
		flagType string
	}{
		{"node", "string"},
		{"username", "string"},
		{"password", "string"},
		{"poll-delay", "string"},
		{"blink-delay", "string"},
		{"fetch-timeout", "string"},
		{"sort", "int"},
		{"obscure-address", "bool"},
		{"show-domains", "bool"},
		{"on-auth-error", "string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := rootCmd.Flags().Lookup(tt.name)
			require.NotNil(t, flag, "root command should have --%s", tt.name)
			assert.Equal(t, tt.flagType, flag.Value.Type())
		})
	}
}

func TestConfigFlagIsPersistent(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("config")
	require.NotNil(t, flag, "--config should be persistent so subcommands inherit it")
	assert.Equal(t, "string", flag.Value.Type())
}

func TestSubcommandsRegistered(t *testing.T) {
	names := make(map[string]bool)
	for _, sub := range rootCmd.Commands() {
		names[sub.Name()] = true
	}

	for _, want := range []string{"init", "doctor", "version", "completion"} {
		assert.True(t, names[want], "%s should be registered", want)
	}
}

func TestConfigAccessor(t *testing.T) {
	saveFlagState(t)

	configFlag = "/tmp/custom.yaml"
	assert.Equal(t, "/tmp/custom.yaml", Config())
}

func TestLoadConfigDefaults(t *testing.T) {
	isolateConfigSearch(t)
	cmd := newDashboardFlags(t)

	cfg, err := loadConfig(cmd)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:14265", cfg.Node)
	assert.Equal(t, 2*time.Second, cfg.PollDelay)
	assert.Equal(t, 500*time.Millisecond, cfg.BlinkDelay)
	assert.Equal(t, config.AuthStop, cfg.OnAuthError)
}

func TestLoadConfigFromFile(t *testing.T) {
	tmp := isolateConfigSearch(t)
	writeTestConfig(t, tmp, config.ConfigFileName, fileConfigYAML)

	cmd := newDashboardFlags(t)
	cfg, err := loadConfig(cmd)
	require.NoError(t, err)

	assert.Equal(t, "http://10.1.2.3:14265", cfg.Node)
	assert.Equal(t, 3*time.Second, cfg.PollDelay)
	assert.Equal(t, 400*time.Millisecond, cfg.BlinkDelay)
	assert.Equal(t, 2, cfg.Sort)
	assert.Equal(t, config.AuthContinue, cfg.OnAuthError)
}

func TestLoadConfigFlagBeatsFile(t *testing.T) {
	tmp := isolateConfigSearch(t)
	writeTestConfig(t, tmp, config.ConfigFileName, fileConfigYAML)

	cmd := newDashboardFlags(t)
	require.NoError(t, cmd.Flags().Set("node", "http://flag.example:14265"))

	cfg, err := loadConfig(cmd)
	require.NoError(t, err)

	assert.Equal(t, "http://flag.example:14265", cfg.Node, "changed flags beat file values")
	assert.Equal(t, 3*time.Second, cfg.PollDelay, "untouched settings keep file values")
}

func TestLoadConfigExplicitPath(t *testing.T) {
	isolateConfigSearch(t)

	dir := t.TempDir()
	path := writeTestConfig(t, dir, "mainnet.yaml", fileConfigYAML)

	cmd := newDashboardFlags(t)
	configFlag = path

	cfg, err := loadConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, "http://10.1.2.3:14265", cfg.Node)
}

func TestLoadConfigMissingExplicitPath(t *testing.T) {
	isolateConfigSearch(t)

	cmd := newDashboardFlags(t)
	configFlag = filepath.Join(t.TempDir(), "nope.yaml")

	_, err := loadConfig(cmd)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoadConfigValidatesMergedResult(t *testing.T) {
	isolateConfigSearch(t)

	cmd := newDashboardFlags(t)
	require.NoError(t, cmd.Flags().Set("on-auth-error", "sometimes"))

	_, err := loadConfig(cmd)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoadConfigRejectsBrokenFile(t *testing.T) {
	tmp := isolateConfigSearch(t)
	writeTestConfig(t, tmp, config.ConfigFileName, "node: [not: valid\n")

	cmd := newDashboardFlags(t)
	_, err := loadConfig(cmd)
	require.Error(t, err)
}
