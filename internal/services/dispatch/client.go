// Package dispatch forwards verification requests to the external
// computation relay. Fire and forget: the result comes back later
// through the callback route, never through this client.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/samtvlabs/bonsai-experiment/internal/core/receipt"
	perr "github.com/samtvlabs/bonsai-experiment/internal/platform/errors"
	"github.com/samtvlabs/bonsai-experiment/internal/platform/logger"
	"github.com/samtvlabs/bonsai-experiment/internal/services/verify/domain"
)

// Envelope is the wire shape the relay accepts
type Envelope struct {
	ImageID    string `json:"image_id"`
	Payload    []byte `json:"payload"`
	ReplyTo    string `json:"reply_to"`
	ReplyEntry string `json:"reply_entry"`
	Budget     uint64 `json:"budget"`
}

// Client posts dispatch envelopes to the relay
type Client struct {
	log  logger.Logger
	http *http.Client
	opts Options
}

// New constructs a relay client
func New(log logger.Logger, opts Options) *Client {
	if opts.URL == "" {
		panic("dispatch.Client requires a relay URL")
	}
	return &Client{
		log:  log.With().Str("component", "dispatch").Logger(),
		http: &http.Client{Timeout: opts.Timeout},
		opts: opts,
	}
}

var _ domain.DispatchPort = (*Client)(nil)

// Dispatch implements domain.DispatchPort.
// The payload is the canonical request encoding, so the relay feeds the
// guest exactly the bytes the digest was derived from.
func (c *Client) Dispatch(ctx context.Context, req receipt.Request, d receipt.Digest) error {
	env := Envelope{
		ImageID:    c.opts.ImageID,
		Payload:    receipt.Encode(req),
		ReplyTo:    c.opts.ReplyTo,
		ReplyEntry: c.opts.ReplyEntry,
		Budget:     c.opts.Budget,
	}

	body, err := json.Marshal(env)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "encode dispatch envelope")
	}

	hreq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.URL, bytes.NewReader(body))
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "build relay request")
	}
	hreq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(hreq)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "relay unreachable at %s", c.opts.URL)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return perr.Unavailablef("relay rejected dispatch: %s", resp.Status)
	}

	// the relay acknowledges with a session id; purely diagnostic here,
	// correlation runs on the digest
	var ack struct {
		SessionID string `json:"session_id"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4<<10)).Decode(&ack)

	c.log.Debug().
		Str("digest", d.String()).
		Str("session_id", ack.SessionID).
		Str("image_id", c.opts.ImageID).
		Uint64("budget", c.opts.Budget).
		Msg("dispatched to relay")
	return nil
}

// String describes the client target for logs
func (c *Client) String() string { return fmt.Sprintf("relay(%s)", c.opts.URL) }
