package integration

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"

	"github.com/iritop/iritop/internal/monitor"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// =============================================================================
// Fake Node
// =============================================================================

// fakeNode is an in-process stand-in for a real node: one POST endpoint
// answering getNodeInfo and getNeighbors, an optional basic-auth gate,
// and counters that climb with every answered poll so values change
// between frames. Server errors can be scripted with failNext.
type fakeNode struct {
	mu        sync.Mutex
	username  string
	password  string
	failCalls int
	polls     int64

	server *httptest.Server
}

// startNode brings up a fake node and tears it down with the test.
func startNode(t *testing.T) *fakeNode {
	t.Helper()
	n := &fakeNode{}
	n.server = httptest.NewServer(http.HandlerFunc(n.handle))
	t.Cleanup(n.server.Close)
	return n
}

func (n *fakeNode) url() string { return n.server.URL }

// requireAuth gates every request behind basic auth.
func (n *fakeNode) requireAuth(username, password string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.username = username
	n.password = password
}

// failNext makes the node answer the next count requests with HTTP 500.
func (n *fakeNode) failNext(count int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failCalls = count
}

// pollCount reports how many getNeighbors calls the node has answered.
func (n *fakeNode) pollCount() int64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.polls
}

func (n *fakeNode) handle(w http.ResponseWriter, r *http.Request) {
	n.mu.Lock()
	defer n.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	if n.username != "" {
		user, pass, ok := r.BasicAuth()
		if !ok || user != n.username || pass != n.password {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"unauthorized": r.RemoteAddr,
				"reason":       "Failed authentication",
			})
			return
		}
	}

	if n.failCalls > 0 {
		n.failCalls--
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	var cmd struct {
		Command string `json:"command"`
	}
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil || cmd.Command == "" {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "missing command"})
		return
	}

	switch cmd.Command {
	case "getNodeInfo":
		_ = json.NewEncoder(w).Encode(n.nodeInfo())
	case "getNeighbors":
		n.polls++
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"duration":  0,
			"neighbors": n.neighbors(),
		})
	default:
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid command"})
	}
}

// nodeInfo answers getNodeInfo. The milestone tracks the poll counter so
// panel values change between polls. Callers hold mu.
func (n *fakeNode) nodeInfo() map[string]interface{} {
	return map[string]interface{}{
		"appName":                            "IRI",
		"appVersion":                         "1.5.6-RELEASE",
		"jreAvailableProcessors":             8,
		"jreFreeMemory":                      int64(845342512),
		"jreMaxMemory":                       int64(4294967296),
		"jreTotalMemory":                     int64(2147483648),
		"jreVersion":                         "1.8.0_201",
		"latestMilestoneIndex":               933210 + n.polls,
		"latestSolidSubtangleMilestoneIndex": 933209 + n.polls,
		"milestoneStartIndex":                933210,
		"neighbors":                          2,
		"packetsQueueSize":                   0,
		"time":                               1549200000000 + n.polls*2000,
		"tips":                               4083,
		"transactionsToRequest":              12,
	}
}

// neighbors answers getNeighbors: one busy peer and one quiet one, so
// sort directions are observable. The busy peer's counters climb with
// the poll counter. Callers hold mu.
func (n *fakeNode) neighbors() []map[string]interface{} {
	return []map[string]interface{}{
		{
			"address":                           "peer.example.org:15600",
			"domain":                            "peer.example.org",
			"connected":                         true,
			"connectionType":                    "tcp",
			"numberOfAllTransactions":           100000 + n.polls*10,
			"numberOfInvalidTransactions":       2,
			"numberOfNewTransactions":           15000 + n.polls,
			"numberOfRandomTransactionRequests": 400,
			"numberOfSentTransactions":          121000 + n.polls*10,
			"numberOfStaleTransactions":         800,
		},
		{
			"address":                           "192.0.2.9:14600",
			"connected":                         false,
			"connectionType":                    "udp",
			"numberOfAllTransactions":           50,
			"numberOfInvalidTransactions":       0,
			"numberOfNewTransactions":           5,
			"numberOfRandomTransactionRequests": 1,
			"numberOfSentTransactions":          40,
			"numberOfStaleTransactions":         0,
		},
	}
}

// =============================================================================
// Dashboard Loop Driver
// =============================================================================

// driveDashboard runs the model's command loop by hand: execute a
// command, feed the resulting message back through Update, repeat. Keys
// are pressed once the first data frame renders. The driver stops when
// the model quits and returns the final model plus the last non-empty
// frame; maxSteps bounds a loop that never quits.
func driveDashboard(t *testing.T, m monitor.Model, maxSteps int, keys ...string) (monitor.Model, string) {
	t.Helper()

	// The program always learns the terminal size before anything else.
	resized, _ := m.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	m = resized.(monitor.Model)

	var lastFrame string
	keysSent := false
	queue := []tea.Cmd{m.Init()}

	for steps := 0; len(queue) > 0; steps++ {
		require.Less(t, steps, maxSteps, "dashboard never quit; last frame:\n%s", lastFrame)

		cmd := queue[0]
		queue = queue[1:]
		if cmd == nil {
			continue
		}

		switch msg := cmd().(type) {
		case tea.QuitMsg:
			return m, lastFrame
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			next, nextCmd := m.Update(msg)
			m = next.(monitor.Model)
			if nextCmd != nil {
				queue = append(queue, nextCmd)
			}
			if frame := m.View(); frame != "" {
				lastFrame = frame
			}
		}

		// The table header marks the first frame with data on it.
		if !keysSent && strings.Contains(lastFrame, "Neighbor") {
			keysSent = true
			for _, key := range keys {
				next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
				m = next.(monitor.Model)
				if cmd != nil {
					queue = append(queue, cmd)
				}
			}
			if frame := m.View(); frame != "" {
				lastFrame = frame
			}
		}
	}

	return m, lastFrame
}
