package monitor

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iritop/iritop/internal/iri"
	"github.com/iritop/iritop/internal/logger"
	"github.com/iritop/iritop/internal/ui"
)

// Options carries everything the dashboard loop consumes. The CLI
// assembles one from the validated config; tests build one directly
// around a scripted fetcher.
type Options struct {
	// Fetcher supplies node data each poll.
	Fetcher iri.Fetcher

	// Node is the display label for the watched node.
	Node string

	// PollDelay is the pause between polls. BlinkDelay is how long a
	// changed value stays highlighted and the cadence highlights are
	// pruned at.
	PollDelay  time.Duration
	BlinkDelay time.Duration

	// FetchTimeout bounds one poll round trip. Zero derives it from
	// PollDelay so a stalled node cannot eat a whole cycle.
	FetchTimeout time.Duration

	// Sort is the startup sort: a signed 1-based column index, positive
	// ascending, negative descending.
	Sort int

	// ObscureAddress masks neighbor hosts on screen. ShowDomains
	// prefers a neighbor's domain over its address when one is known.
	ObscureAddress bool
	ShowDomains    bool

	// StopOnAuthError ends the session when the node rejects the
	// configured credentials. Otherwise the refusal is displayed and
	// polling continues, for nodes that flap behind auth proxies.
	StopOnAuthError bool

	// MaxCycles quits the loop after that many completed polls. Zero
	// means run until the operator quits. Used for bounded test runs;
	// the CLI never sets it.
	MaxCycles int

	Log logger.Logger
}

// Model is the Bubble Tea model for the dashboard: one poll-diff-render
// loop around a snapshot pair, a set of blinking cells, and a sort
// state.
type Model struct {
	opts Options
	log  logger.Logger

	store   *Store
	changes ChangeSet
	sort    SortState

	width  int
	height int

	// spinner animates the waiting screen before the first poll lands.
	spinner spinner.Model

	// inFlight enforces at most one outstanding poll. cycles counts
	// completed polls regardless of outcome.
	inFlight bool
	cycles   int

	// stale marks the rendered snapshot as older than the last poll
	// attempt; staleErr says why the attempt failed.
	stale    bool
	staleErr error

	fatalErr error
	quitting bool
}

// pollTickMsg says it is time for the next poll.
type pollTickMsg time.Time

// blinkTickMsg drives highlight decay between polls.
type blinkTickMsg time.Time

// pollResultMsg hands one completed poll back to the update loop. It is
// the only path fetched data takes into the model, so the view never
// sees a half-written snapshot.
type pollResultMsg struct {
	snapshot Snapshot
	err      error
}

// NewModel builds the dashboard model. Non-positive delays fall back to
// workable defaults so a zero-value Options still polls.
func NewModel(opts Options) Model {
	if opts.Log == nil {
		opts.Log = logger.Noop()
	}
	if opts.PollDelay <= 0 {
		opts.PollDelay = 2 * time.Second
	}
	if opts.BlinkDelay <= 0 {
		opts.BlinkDelay = 500 * time.Millisecond
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = opts.PollDelay * 4 / 5
	}

	sp := spinner.New()
	sp.Spinner = ui.SpinnerFrames
	sp.Style = SpinnerStyle

	return Model{
		opts:    opts,
		log:     opts.Log,
		store:   NewStore(),
		changes: NewChangeSet(),
		sort:    SortState(opts.Sort),
		spinner: sp,
	}
}

// Init requests the first poll right away and starts the blink cadence.
func (m Model) Init() tea.Cmd {
	return tea.Batch(firstPollCmd, m.blinkTickCmd(), m.spinner.Tick)
}

// firstPollCmd asks for a poll as soon as the program starts, through
// the same path later ticks take.
func firstPollCmd() tea.Msg {
	return pollTickMsg(time.Now())
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		handled, cmd := m.HandleKeyMsg(msg)
		if handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case pollTickMsg:
		return m.startPoll()

	case pollResultMsg:
		return m.completePoll(msg)

	case blinkTickMsg:
		m.changes.Prune(time.Time(msg))
		return m, m.blinkTickCmd()

	case spinner.TickMsg:
		if !m.store.HasData() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.store.HasData() {
		return m.renderWaiting()
	}
	return m.renderDashboard(time.Now())
}

// Err returns the failure that ended the session, if any. The CLI
// reports it once the terminal is restored.
func (m Model) Err() error {
	return m.fatalErr
}

// startPoll launches a fetch unless one is already running.
func (m Model) startPoll() (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}
	if m.inFlight {
		// The previous poll is still out; check back soon instead of
		// stacking a second fetch on the node.
		return m, m.pollTickCmd(m.opts.BlinkDelay)
	}
	m.inFlight = true
	return m, m.pollCmd()
}

// completePoll folds one poll outcome into the model and schedules the
// next cycle.
func (m Model) completePoll(msg pollResultMsg) (tea.Model, tea.Cmd) {
	m.inFlight = false
	m.cycles++

	switch {
	case msg.err == nil:
		now := time.Now()
		fresh := Diff(m.store.Current(), &msg.snapshot, now, m.opts.BlinkDelay)
		m.store.Advance(msg.snapshot)
		m.changes.Merge(fresh)
		m.stale = false
		m.staleErr = nil

	case iri.IsTransient(msg.err):
		// Keep the previous snapshot on screen; the next poll is the
		// retry.
		m.log.Debug("poll failed: %v", msg.err)
		m.stale = true
		m.staleErr = msg.err

	case iri.IsAuth(msg.err):
		if m.opts.StopOnAuthError {
			m.fatalErr = msg.err
			m.quitting = true
			return m, tea.Quit
		}
		m.log.Debug("node refused credentials: %v", msg.err)
		m.stale = true
		m.staleErr = msg.err

	default:
		// Protocol violations and anything unexpected are fatal: the
		// node is not speaking the API this dashboard understands.
		m.fatalErr = msg.err
		m.quitting = true
		return m, tea.Quit
	}

	if m.opts.MaxCycles > 0 && m.cycles >= m.opts.MaxCycles {
		m.quitting = true
		return m, tea.Quit
	}

	return m, m.pollTickCmd(m.opts.PollDelay)
}

// pollCmd runs both fetches off the update loop and hands back a single
// result message. One context deadline covers the pair, so a node that
// answers getNodeInfo but stalls on getNeighbors still fails the cycle
// in time.
func (m Model) pollCmd() tea.Cmd {
	fetcher := m.opts.Fetcher
	timeout := m.opts.FetchTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		node, err := fetcher.NodeInfo(ctx)
		if err != nil {
			return pollResultMsg{err: err}
		}
		neighbors, err := fetcher.Neighbors(ctx)
		if err != nil {
			return pollResultMsg{err: err}
		}

		return pollResultMsg{snapshot: Snapshot{
			Neighbors: neighbors,
			Node:      node,
			FetchedAt: time.Now(),
		}}
	}
}

// pollTickCmd schedules the next poll after d.
func (m Model) pollTickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return pollTickMsg(t)
	})
}

// blinkTickCmd keeps highlight decay moving between polls.
func (m Model) blinkTickCmd() tea.Cmd {
	return tea.Tick(m.opts.BlinkDelay, func(t time.Time) tea.Msg {
		return blinkTickMsg(t)
	})
}
