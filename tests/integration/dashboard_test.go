package integration

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iritop/iritop/internal/config"
	"github.com/iritop/iritop/internal/iri"
	"github.com/iritop/iritop/internal/monitor"
)

// =============================================================================
// Poll Loop Against a Live Node
// =============================================================================

func TestDashboardPollsLiveNode(t *testing.T) {
	node := startNode(t)

	client, err := iri.NewClient(node.url())
	require.NoError(t, err)

	model := monitor.NewModel(monitor.Options{
		Fetcher:    client,
		Node:       node.url(),
		PollDelay:  50 * time.Millisecond,
		BlinkDelay: 20 * time.Millisecond,
		MaxCycles:  3,
	})

	model, frame := driveDashboard(t, model, 400)

	require.NoError(t, model.Err())
	assert.EqualValues(t, 3, node.pollCount())

	// The last frame on screen holds the second poll's snapshot; the
	// third poll ends the bounded run before it renders.
	assert.Contains(t, frame, "iritop")
	assert.Contains(t, frame, node.url())
	assert.Contains(t, frame, "IRI 1.5.6-RELEASE")
	assert.Contains(t, frame, "933,211")
	assert.Contains(t, frame, "4,083")

	assert.Contains(t, frame, "peer.example.org:15600")
	assert.Contains(t, frame, "192.0.2.9:14600")
	assert.Contains(t, frame, "100,020")
	assert.Contains(t, frame, "121,020")

	assert.Contains(t, frame, "1-8 sort column")
}

func TestDashboardKeyboard(t *testing.T) {
	t.Run("digit selects sort column, same digit flips it", func(t *testing.T) {
		node := startNode(t)

		client, err := iri.NewClient(node.url())
		require.NoError(t, err)

		model := monitor.NewModel(monitor.Options{
			Fetcher:    client,
			Node:       node.url(),
			PollDelay:  50 * time.Millisecond,
			BlinkDelay: 20 * time.Millisecond,
			MaxCycles:  3,
		})

		// Column 5 is "Sent tx"; pressing 5 twice lands on descending.
		model, frame := driveDashboard(t, model, 400, "5", "5")

		require.NoError(t, model.Err())
		assert.Contains(t, frame, "Sent tx ▼")

		busy := strings.Index(frame, "peer.example.org:15600")
		quiet := strings.Index(frame, "192.0.2.9:14600")
		require.GreaterOrEqual(t, busy, 0)
		require.GreaterOrEqual(t, quiet, 0)
		assert.Less(t, busy, quiet, "busiest sender sorts first when descending")
	})

	t.Run("single press sorts ascending", func(t *testing.T) {
		node := startNode(t)

		client, err := iri.NewClient(node.url())
		require.NoError(t, err)

		model := monitor.NewModel(monitor.Options{
			Fetcher:    client,
			Node:       node.url(),
			PollDelay:  50 * time.Millisecond,
			BlinkDelay: 20 * time.Millisecond,
			MaxCycles:  3,
		})

		model, frame := driveDashboard(t, model, 400, "5")

		require.NoError(t, model.Err())
		assert.Contains(t, frame, "Sent tx ▲")

		busy := strings.Index(frame, "peer.example.org:15600")
		quiet := strings.Index(frame, "192.0.2.9:14600")
		require.GreaterOrEqual(t, busy, 0)
		require.GreaterOrEqual(t, quiet, 0)
		assert.Less(t, quiet, busy)
	})

	t.Run("q ends the session cleanly", func(t *testing.T) {
		node := startNode(t)

		client, err := iri.NewClient(node.url())
		require.NoError(t, err)

		// No cycle bound: the keypress is the only way out.
		model := monitor.NewModel(monitor.Options{
			Fetcher:    client,
			Node:       node.url(),
			PollDelay:  50 * time.Millisecond,
			BlinkDelay: 20 * time.Millisecond,
		})

		model, frame := driveDashboard(t, model, 400, "q")

		require.NoError(t, model.Err())
		assert.Contains(t, frame, "peer.example.org:15600")
		assert.EqualValues(t, 1, node.pollCount(), "no poll after quit")
	})
}

// =============================================================================
// Failure Handling
// =============================================================================

func TestDashboardAuthPolicies(t *testing.T) {
	t.Run("stop ends the session on refused credentials", func(t *testing.T) {
		node := startNode(t)
		node.requireAuth("operator", "hunter2")

		client, err := iri.NewClient(node.url())
		require.NoError(t, err)

		model := monitor.NewModel(monitor.Options{
			Fetcher:         client,
			Node:            node.url(),
			PollDelay:       50 * time.Millisecond,
			BlinkDelay:      20 * time.Millisecond,
			StopOnAuthError: true,
		})

		model, _ = driveDashboard(t, model, 400)

		require.Error(t, model.Err())
		assert.True(t, iri.IsAuth(model.Err()))
		assert.Contains(t, model.Err().Error(), "refused")
		assert.EqualValues(t, 0, node.pollCount())
	})

	t.Run("continue keeps polling and shows the refusal", func(t *testing.T) {
		node := startNode(t)
		node.requireAuth("operator", "hunter2")

		client, err := iri.NewClient(node.url())
		require.NoError(t, err)

		model := monitor.NewModel(monitor.Options{
			Fetcher:    client,
			Node:       node.url(),
			PollDelay:  50 * time.Millisecond,
			BlinkDelay: 20 * time.Millisecond,
			MaxCycles:  2,
		})

		model, frame := driveDashboard(t, model, 400)

		require.NoError(t, model.Err(), "refusals are not fatal under continue")
		assert.Contains(t, frame, "waiting for")
		assert.Contains(t, frame, "still trying")
		assert.Contains(t, frame, "Node refused the request")
	})
}

func TestDashboardRidesOutServerErrors(t *testing.T) {
	node := startNode(t)
	node.failNext(2)

	client, err := iri.NewClient(node.url())
	require.NoError(t, err)

	model := monitor.NewModel(monitor.Options{
		Fetcher:    client,
		Node:       node.url(),
		PollDelay:  50 * time.Millisecond,
		BlinkDelay: 20 * time.Millisecond,
		MaxCycles:  4,
	})

	model, frame := driveDashboard(t, model, 400)

	require.NoError(t, model.Err(), "server errors are retried, not fatal")
	assert.EqualValues(t, 2, node.pollCount(), "two polls land once the node recovers")
	assert.Contains(t, frame, "peer.example.org:15600")
	assert.Contains(t, frame, "100,010")
}

func TestDashboardFatalOnProtocolViolation(t *testing.T) {
	// Answers 200 with a body missing every required field.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"appName": "IRI"}`))
	}))
	t.Cleanup(server.Close)

	client, err := iri.NewClient(server.URL)
	require.NoError(t, err)

	model := monitor.NewModel(monitor.Options{
		Fetcher:    client,
		Node:       server.URL,
		PollDelay:  50 * time.Millisecond,
		BlinkDelay: 20 * time.Millisecond,
	})

	model, _ = driveDashboard(t, model, 400)

	require.Error(t, model.Err())
	assert.True(t, iri.IsProtocol(model.Err()))
	assert.Contains(t, model.Err().Error(), "missing required fields")
}

// =============================================================================
// Config File to Dashboard
// =============================================================================

func TestConfigFileDrivesDashboard(t *testing.T) {
	node := startNode(t)
	node.requireAuth("operator", "hunter2")

	dir := t.TempDir()
	configPath := filepath.Join(dir, ".iritop.yaml")

	content := fmt.Sprintf(`
version: 1
node: %s
username: operator
password: hunter2
poll_delay: 50ms
blink_delay: 20ms
sort: -3
on_auth_error: stop
`, node.url())
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))

	cfg, err := config.Load(configPath)
	require.NoError(t, err)
	require.NoError(t, config.Validate(cfg))

	assert.Equal(t, 50*time.Millisecond, cfg.PollDelay)
	assert.Equal(t, -3, cfg.Sort)
	assert.True(t, cfg.HasAuth())

	client, err := iri.NewClient(cfg.Node, iri.WithBasicAuth(cfg.Username, cfg.Password))
	require.NoError(t, err)

	model := monitor.NewModel(monitor.Options{
		Fetcher:         client,
		Node:            cfg.Node,
		PollDelay:       cfg.PollDelay,
		BlinkDelay:      cfg.BlinkDelay,
		FetchTimeout:    cfg.EffectiveFetchTimeout(),
		Sort:            cfg.Sort,
		ObscureAddress:  cfg.ObscureAddress,
		ShowDomains:     cfg.ShowDomains,
		StopOnAuthError: cfg.OnAuthError != config.AuthContinue,
		MaxCycles:       3,
	})

	model, frame := driveDashboard(t, model, 400)

	require.NoError(t, model.Err(), "configured credentials satisfy the node")

	// sort: -3 is "All tx" descending, so the busy peer leads.
	busy := strings.Index(frame, "peer.example.org:15600")
	quiet := strings.Index(frame, "192.0.2.9:14600")
	require.GreaterOrEqual(t, busy, 0)
	require.GreaterOrEqual(t, quiet, 0)
	assert.Less(t, busy, quiet)
	assert.Contains(t, frame, "All tx ▼")
}
