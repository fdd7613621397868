// Package iri speaks the node's JSON request/response API: one POST per
// data kind, basic auth when configured, and schema validation on every
// response. Failures come back typed so the caller can tell a dead
// network from bad credentials from a malformed node.
package iri

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/iritop/iritop/internal/errors"
	"github.com/iritop/iritop/internal/logger"
)

const (
	// apiVersionHeader must accompany every request or the node
	// answers with an error.
	apiVersionHeader = "X-IOTA-API-Version"
	apiVersion       = "1"

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 1 << 20
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Fetcher issues one request/response exchange per data kind against the
// monitored node. Implementations never retry internally; retry policy
// belongs to the polling cadence of the caller.
type Fetcher interface {
	NodeInfo(ctx context.Context) (NodeInfo, error)
	Neighbors(ctx context.Context) ([]Neighbor, error)
}

// Client is an HTTP client for the node API. It implements Fetcher.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	username   string
	password   string
	log        logger.Logger
}

// NewClient creates a node API client for the given base URL.
func NewClient(node string, opts ...ClientOption) (*Client, error) {
	baseURL, err := url.Parse(node)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid node URL: "+node,
			"Use something like 'http://localhost:14265'")
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		log:        logger.Noop(),
	}

	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithBasicAuth sets credentials sent with every request.
func WithBasicAuth(username, password string) ClientOption {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// WithLogger sets the logger for request debugging.
func WithLogger(log logger.Logger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

// NodeInfo fetches and validates the node's health snapshot.
func (c *Client) NodeInfo(ctx context.Context) (NodeInfo, error) {
	var wire nodeInfoWire
	if err := c.do(ctx, "getNodeInfo", &wire); err != nil {
		return NodeInfo{}, err
	}
	if err := validate.Struct(&wire); err != nil {
		return NodeInfo{}, errors.WrapWithCode(err, errors.ErrProtocol,
			"getNodeInfo response is missing required fields",
			suggestAPIVersion)
	}
	return wire.toNodeInfo(), nil
}

// Neighbors fetches and validates the neighbor list.
func (c *Client) Neighbors(ctx context.Context) ([]Neighbor, error) {
	var wire neighborsWire
	if err := c.do(ctx, "getNeighbors", &wire); err != nil {
		return nil, err
	}
	if err := validate.Struct(&wire); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrProtocol,
			"getNeighbors response is missing required fields",
			suggestAPIVersion)
	}

	neighbors := make([]Neighbor, 0, len(wire.Neighbors))
	for _, n := range wire.Neighbors {
		neighbors = append(neighbors, n.toNeighbor())
	}
	return neighbors, nil
}

// apiCommand is the request body for every call.
type apiCommand struct {
	Command string `json:"command"`
}

// refusal is the body the node sends with a 401/403.
type refusal struct {
	Unauthorized string `json:"unauthorized"`
	Reason       string `json:"reason"`
}

// apiError is the body the node sends with other 4xx answers.
type apiError struct {
	Error string `json:"error"`
}

// do POSTs a single command and decodes the response into out.
func (c *Client) do(ctx context.Context, command string, out interface{}) error {
	body, err := json.Marshal(apiCommand{Command: command})
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrProtocol,
			"Cannot encode the "+command+" request", "")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL.String(), bytes.NewReader(body))
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot build a request for "+c.baseURL.String(),
			"Check the node URL in your config")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(apiVersionHeader, apiVersion)
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	c.log.Debug("POST %s %s", c.baseURL.Host, command)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Connection refused, DNS failure, context deadline: all
		// worth another try on the next poll.
		return errors.WrapWithCode(err, errors.ErrNetwork,
			"Cannot reach node at "+c.baseURL.Host,
			"The node may be down or the network flaky. Polling continues.")
	}
	defer resp.Body.Close()

	limited := io.LimitReader(resp.Body, maxResponseBytes)

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := json.NewDecoder(limited).Decode(out); err != nil {
			return errors.WrapWithCode(err, errors.ErrProtocol,
				"Cannot decode the "+command+" response",
				suggestAPIVersion)
		}
		return nil

	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		raw, _ := io.ReadAll(limited)
		var ref refusal
		_ = json.Unmarshal(raw, &ref)

		msg := "Node refused the request"
		if ref.Reason != "" {
			msg += ": " + ref.Reason
		}
		if ref.Unauthorized != "" {
			msg += " (client " + ref.Unauthorized + ")"
		}
		return errors.New(errors.ErrAuth, msg,
			"Check the configured username and password, or run 'iritop init'.")

	case resp.StatusCode >= 500:
		return errors.New(errors.ErrNetwork,
			fmt.Sprintf("Node returned a server error (HTTP %d)", resp.StatusCode),
			"The node may be restarting. Polling continues.")

	default:
		raw, _ := io.ReadAll(limited)
		var ae apiError
		_ = json.Unmarshal(raw, &ae)

		detail := strings.TrimSpace(string(raw))
		if ae.Error != "" {
			detail = ae.Error
		}
		return errors.New(errors.ErrProtocol,
			fmt.Sprintf("Node rejected the %s command (HTTP %d): %s", command, resp.StatusCode, detail),
			suggestAPIVersion)
	}
}

const suggestAPIVersion = "Check that the node speaks a compatible API version."

// IsAuth reports whether err is a credential refusal from the node.
func IsAuth(err error) bool {
	return errors.IsCode(err, errors.ErrAuth)
}

// IsTransient reports whether err is a network failure worth retrying on
// the next poll.
func IsTransient(err error) bool {
	return errors.IsCode(err, errors.ErrNetwork)
}

// IsProtocol reports whether err means the node response violated the
// expected schema.
func IsProtocol(err error) bool {
	return errors.IsCode(err, errors.ErrProtocol)
}
