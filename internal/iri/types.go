package iri

import "github.com/go-playground/validator/v10"

// validate checks decoded wire structs before they are handed to callers.
// A response missing a required field fails here and surfaces as a
// protocol error, never as a default-filled value.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Neighbor is one peer connection of the monitored node.
// The address is the stable identity; counters are non-decreasing in
// practice but nothing here assumes that.
type Neighbor struct {
	Address             string
	Domain              string
	Connected           bool
	ConnectionType      string
	AllTransactions     int64
	InvalidTransactions int64
	NewTransactions     int64
	RandomRequests      int64
	SentTransactions    int64
	StaleTransactions   int64
}

// NodeInfo is the node's health snapshot, refreshed wholesale each poll.
type NodeInfo struct {
	AppName                   string
	AppVersion                string
	JREVersion                string
	JREAvailableProcessors    int64
	JREFreeMemory             int64
	JRETotalMemory            int64
	JREMaxMemory              int64
	LatestMilestoneIndex      int64
	LatestSolidMilestoneIndex int64
	MilestoneStartIndex       int64
	NeighborCount             int64
	PacketsQueueSize          int64
	TimeMillis                int64
	Tips                      int64
	TransactionsToRequest     int64
}

// MilestoneLag is how far the solid subtangle milestone trails the
// latest one. Zero means the node is fully synced.
func (n NodeInfo) MilestoneLag() int64 {
	return n.LatestMilestoneIndex - n.LatestSolidMilestoneIndex
}

// neighborWire is the getNeighbors element as it appears on the wire.
// Required fields are pointers so an absent field is distinguishable
// from a zero value. Unknown extra fields are ignored so newer nodes
// keep working.
type neighborWire struct {
	Address             *string `json:"address" validate:"required,min=1"`
	Domain              string  `json:"domain"`
	Connected           bool    `json:"connected"`
	ConnectionType      *string `json:"connectionType" validate:"required,oneof=udp tcp"`
	AllTransactions     *int64  `json:"numberOfAllTransactions" validate:"required"`
	InvalidTransactions *int64  `json:"numberOfInvalidTransactions" validate:"required"`
	NewTransactions     *int64  `json:"numberOfNewTransactions" validate:"required"`
	RandomRequests      *int64  `json:"numberOfRandomTransactionRequests" validate:"required"`
	SentTransactions    *int64  `json:"numberOfSentTransactions" validate:"required"`
	StaleTransactions   *int64  `json:"numberOfStaleTransactions" validate:"required"`
}

func (w neighborWire) toNeighbor() Neighbor {
	return Neighbor{
		Address:             *w.Address,
		Domain:              w.Domain,
		Connected:           w.Connected,
		ConnectionType:      *w.ConnectionType,
		AllTransactions:     *w.AllTransactions,
		InvalidTransactions: *w.InvalidTransactions,
		NewTransactions:     *w.NewTransactions,
		RandomRequests:      *w.RandomRequests,
		SentTransactions:    *w.SentTransactions,
		StaleTransactions:   *w.StaleTransactions,
	}
}

// neighborsWire is the getNeighbors response wrapper.
// An empty neighbor list is valid; a missing one is not.
type neighborsWire struct {
	Neighbors []neighborWire `json:"neighbors" validate:"required,dive"`
	Duration  int64          `json:"duration"`
}

// nodeInfoWire is the getNodeInfo response as it appears on the wire.
type nodeInfoWire struct {
	AppName                   *string `json:"appName" validate:"required,min=1"`
	AppVersion                *string `json:"appVersion" validate:"required,min=1"`
	JREVersion                string  `json:"jreVersion"`
	JREAvailableProcessors    int64   `json:"jreAvailableProcessors"`
	JREFreeMemory             *int64  `json:"jreFreeMemory" validate:"required"`
	JRETotalMemory            *int64  `json:"jreTotalMemory" validate:"required"`
	JREMaxMemory              *int64  `json:"jreMaxMemory" validate:"required"`
	LatestMilestoneIndex      *int64  `json:"latestMilestoneIndex" validate:"required"`
	LatestSolidMilestoneIndex *int64  `json:"latestSolidSubtangleMilestoneIndex" validate:"required"`
	MilestoneStartIndex       int64   `json:"milestoneStartIndex"`
	Neighbors                 *int64  `json:"neighbors" validate:"required"`
	PacketsQueueSize          *int64  `json:"packetsQueueSize" validate:"required"`
	TimeMillis                *int64  `json:"time" validate:"required"`
	Tips                      *int64  `json:"tips" validate:"required"`
	TransactionsToRequest     *int64  `json:"transactionsToRequest" validate:"required"`
}

func (w nodeInfoWire) toNodeInfo() NodeInfo {
	return NodeInfo{
		AppName:                   *w.AppName,
		AppVersion:                *w.AppVersion,
		JREVersion:                w.JREVersion,
		JREAvailableProcessors:    w.JREAvailableProcessors,
		JREFreeMemory:             *w.JREFreeMemory,
		JRETotalMemory:            *w.JRETotalMemory,
		JREMaxMemory:              *w.JREMaxMemory,
		LatestMilestoneIndex:      *w.LatestMilestoneIndex,
		LatestSolidMilestoneIndex: *w.LatestSolidMilestoneIndex,
		MilestoneStartIndex:       w.MilestoneStartIndex,
		NeighborCount:             *w.Neighbors,
		PacketsQueueSize:          *w.PacketsQueueSize,
		TimeMillis:                *w.TimeMillis,
		Tips:                      *w.Tips,
		TransactionsToRequest:     *w.TransactionsToRequest,
	}
}
