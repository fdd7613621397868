package doctor

import (
	"context"
	"fmt"
	"time"

	"github.com/iritop/iritop/internal/config"
	"github.com/iritop/iritop/internal/iri"
)

// DefaultProbeTimeout bounds the node reachability probe.
const DefaultProbeTimeout = 10 * time.Second

// NodeReachableCheck probes the configured node with a live getNodeInfo
// call, exactly the request the dashboard opens with.
type NodeReachableCheck struct {
	Config  *config.Config
	Timeout time.Duration // Defaults to DefaultProbeTimeout
}

func (c *NodeReachableCheck) Name() string     { return "node_reachable" }
func (c *NodeReachableCheck) Category() string { return "NODE" }

func (c *NodeReachableCheck) Run() CheckResult {
	if c.Config == nil {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusWarn,
			Message: "Skipped: no usable config",
		}
	}

	var opts []iri.ClientOption
	if c.Config.HasAuth() {
		opts = append(opts, iri.WithBasicAuth(c.Config.Username, c.Config.Password))
	}

	client, err := iri.NewClient(c.Config.Node, opts...)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    flatten(err),
			Suggestion: "Check the 'node' setting, it should look like http://localhost:14265",
		}
	}

	timeout := c.Timeout
	if timeout == 0 {
		timeout = DefaultProbeTimeout
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	info, err := client.NodeInfo(ctx)
	latency := time.Since(start)

	switch {
	case err == nil:
		return CheckResult{
			Name:   c.Name(),
			Status: StatusPass,
			Message: fmt.Sprintf("%s %s at %s (%s, %d neighbor%s)",
				info.AppName, info.AppVersion, c.Config.Node,
				latency.Round(time.Millisecond), info.NeighborCount,
				pluralize(int(info.NeighborCount))),
		}
	case iri.IsAuth(err):
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    flatten(err),
			Suggestion: "Check the configured username and password, or rerun 'iritop init'",
		}
	case iri.IsTransient(err):
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    flatten(err),
			Suggestion: "Check the node is running and reachable: " + c.Config.Node,
		}
	default:
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    flatten(err),
			Suggestion: "Check that " + c.Config.Node + " answers the IRI API",
		}
	}
}

// NewNodeChecks creates the node connectivity checks.
// A nil cfg means the config checks already failed; the probe is skipped
// rather than hammering a node address known to be wrong.
func NewNodeChecks(cfg *config.Config) []Check {
	return []Check{
		&NodeReachableCheck{Config: cfg},
	}
}
