// relay-sim is a development stand-in for the external computation
// relay: it accepts dispatch envelopes and immediately posts a callback
// with a configurable verdict. It performs no real verification.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/samtvlabs/bonsai-experiment/internal/core/receipt"
	"github.com/samtvlabs/bonsai-experiment/internal/platform/config"
	"github.com/samtvlabs/bonsai-experiment/internal/platform/logger"
	phttp "github.com/samtvlabs/bonsai-experiment/internal/platform/net/http"
	"github.com/samtvlabs/bonsai-experiment/internal/services/dispatch"
)

type callbackBody struct {
	ImageID   string `json:"image_id"`
	Message   []byte `json:"message"`
	Signature []byte `json:"signature"`
	Result    bool   `json:"result"`
}

type sim struct {
	log     logger.Logger
	client  *http.Client
	token   string
	verdict bool
}

func main() {
	root := config.New()
	cfg := root.Prefix("RELAY_SIM_")
	l := logger.Get()

	s := &sim{
		log:     *l,
		client:  &http.Client{Timeout: cfg.MayDuration("CALLBACK_TIMEOUT", 10*time.Second)},
		token:   cfg.MustString("TOKEN"),
		verdict: cfg.MayBool("VERDICT", true),
	}

	srv := phttp.NewServer(cfg)
	srv.Router().Post("/", s.handleDispatch)

	l.Info().Bool("verdict", s.verdict).Msg("relay-sim listening")
	if err := srv.Run(context.Background()); err != nil {
		l.Panic().Err(err).Msg("relay-sim stopped")
	}
}

func (s *sim) handleDispatch(w http.ResponseWriter, r *http.Request) {
	defer func() { _ = r.Body.Close() }()

	var env dispatch.Envelope
	if err := json.NewDecoder(io.LimitReader(r.Body, 4<<20)).Decode(&env); err != nil {
		http.Error(w, "bad envelope: "+err.Error(), http.StatusBadRequest)
		return
	}
	req, err := receipt.Decode(env.Payload)
	if err != nil {
		http.Error(w, "bad payload: "+err.Error(), http.StatusBadRequest)
		return
	}

	// fire the callback after replying, like the real relay would
	session := uuid.NewString()
	go s.callback(session, env, req)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(map[string]string{"session_id": session})
}

func (s *sim) callback(session string, env dispatch.Envelope, req receipt.Request) {
	body, err := json.Marshal(callbackBody{
		ImageID:   env.ImageID,
		Message:   req.Message,
		Signature: req.Signature,
		Result:    s.verdict,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("encode callback")
		return
	}

	hreq, err := http.NewRequest(http.MethodPost, env.ReplyTo, bytes.NewReader(body))
	if err != nil {
		s.log.Error().Err(err).Str("reply_to", env.ReplyTo).Msg("build callback")
		return
	}
	hreq.Header.Set("Content-Type", "application/json")
	hreq.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.client.Do(hreq)
	if err != nil {
		s.log.Error().Err(err).Str("reply_to", env.ReplyTo).Msg("deliver callback")
		return
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))

	s.log.Info().
		Str("session_id", session).
		Str("reply_to", env.ReplyTo).
		Int("status", resp.StatusCode).
		Bool("verdict", s.verdict).
		Msg("callback delivered")
}
