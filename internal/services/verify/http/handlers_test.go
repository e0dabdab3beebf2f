package http

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/samtvlabs/bonsai-experiment/internal/core/receipt"
	"github.com/samtvlabs/bonsai-experiment/internal/modkit/httpkit"
	perrs "github.com/samtvlabs/bonsai-experiment/internal/platform/errors"
	phttp "github.com/samtvlabs/bonsai-experiment/internal/platform/net/http"
	"github.com/samtvlabs/bonsai-experiment/internal/services/verify/domain"
	"github.com/samtvlabs/bonsai-experiment/internal/services/verify/repo"
	svc "github.com/samtvlabs/bonsai-experiment/internal/services/verify/service"
)

const (
	testToken = "relay-token"
	testImage = "a3f1a3f1a3f1a3f1a3f1a3f1a3f1a3f1a3f1a3f1a3f1a3f1a3f1a3f1a3f1a3f1"
)

type nopDispatcher struct{}

func (nopDispatcher) Dispatch(context.Context, receipt.Request, receipt.Digest) error { return nil }

// envelope mirrors the wire shape for assertions
type envelope struct {
	StatusCode int             `json:"status_code"`
	Code       perrs.ErrorCode `json:"code"`
	Error      string          `json:"error"`
	Data       json.RawMessage `json:"data"`
}

// newTestMux wires submit/query/stats plus the authenticated callback,
// the same shape the module mounts in production
func newTestMux(t *testing.T) *chi.Mux {
	t.Helper()

	guard := svc.NewGuard("relay", domain.ImageID(testImage))
	s := svc.New(zerolog.Nop(), guard, repo.NewMemory(), nil, nopDispatcher{})

	authPort := httpkit.NewPortFunc(func(tok string) (string, error) {
		if subtle.ConstantTimeCompare([]byte(tok), []byte(testToken)) != 1 {
			return "", perrs.Unauthorizedf("unknown token")
		}
		return "relay", nil
	})

	mux := chi.NewRouter()
	r := phttp.AdaptChi(mux)
	Register(r, s)
	httpkit.Protected(r, authPort, func(gr httpkit.Router) {
		RegisterCallback(gr, s, 1<<20)
	})
	return mux
}

func doJSON(t *testing.T, mux *chi.Mux, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode envelope (%d %s): %v", rec.Code, rec.Body.String(), err)
		}
	}
	return rec, env
}

func TestSubmit_Accepted(t *testing.T) {
	t.Parallel()

	mux := newTestMux(t)

	in := domain.SubmitInput{Message: []byte("abc"), Signature: []byte("xyz")}
	rec, env := doJSON(t, mux, stdhttp.MethodPost, "/", "", in)
	if rec.Code != stdhttp.StatusAccepted {
		t.Fatalf("submit status: want 202, got %d (%s)", rec.Code, rec.Body.String())
	}

	var data domain.SubmitAccepted
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	want := receipt.Derive(receipt.Request{Message: in.Message, Signature: in.Signature})
	if data.Digest != want.String() {
		t.Fatalf("digest: want %s, got %s", want, data.Digest)
	}
}

func TestQuery_MissIs404(t *testing.T) {
	t.Parallel()

	mux := newTestMux(t)

	in := domain.QueryInput{Message: []byte("never"), Signature: []byte("computed")}
	rec, env := doJSON(t, mux, stdhttp.MethodPost, "/query", "", in)
	if rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("miss status: want 404, got %d (%s)", rec.Code, rec.Body.String())
	}
	if env.Error == "" {
		t.Fatalf("expected error message in envelope")
	}
}

func TestCallback_RequiresBearer(t *testing.T) {
	t.Parallel()

	mux := newTestMux(t)

	in := domain.CallbackInput{
		ImageID:   testImage,
		Message:   []byte("abc"),
		Signature: []byte("xyz"),
		Result:    true,
	}

	rec, _ := doJSON(t, mux, stdhttp.MethodPost, "/callback", "", in)
	if rec.Code != stdhttp.StatusUnauthorized {
		t.Fatalf("no token: want 401, got %d", rec.Code)
	}

	rec, _ = doJSON(t, mux, stdhttp.MethodPost, "/callback", "wrong-token", in)
	if rec.Code != stdhttp.StatusUnauthorized {
		t.Fatalf("bad token: want 401, got %d", rec.Code)
	}
}

func TestCallback_UntrustedProgramIs403(t *testing.T) {
	t.Parallel()

	mux := newTestMux(t)

	in := domain.CallbackInput{
		// valid shape, wrong identity
		ImageID:   "0000000000000000000000000000000000000000000000000000000000000000",
		Message:   []byte("abc"),
		Signature: []byte("xyz"),
		Result:    true,
	}
	rec, _ := doJSON(t, mux, stdhttp.MethodPost, "/callback", testToken, in)
	if rec.Code != stdhttp.StatusForbidden {
		t.Fatalf("untrusted program: want 403, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestCallback_MalformedImageIDIs400(t *testing.T) {
	t.Parallel()

	mux := newTestMux(t)

	in := domain.CallbackInput{
		ImageID:   "not-hex",
		Message:   []byte("abc"),
		Signature: []byte("xyz"),
		Result:    true,
	}
	rec, _ := doJSON(t, mux, stdhttp.MethodPost, "/callback", testToken, in)
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("malformed image id: want 400, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestCallback_IngestThenQuery(t *testing.T) {
	t.Parallel()

	mux := newTestMux(t)

	msg, sig := []byte("abc"), []byte("xyz")
	cb := domain.CallbackInput{ImageID: testImage, Message: msg, Signature: sig, Result: true}

	// first delivery
	rec, env := doJSON(t, mux, stdhttp.MethodPost, "/callback", testToken, cb)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("first callback: want 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	var ack domain.CallbackAck
	if err := json.Unmarshal(env.Data, &ack); err != nil {
		t.Fatalf("decode ack: %v", err)
	}
	if ack.Outcome != "inserted" {
		t.Fatalf("first callback outcome: want inserted, got %s", ack.Outcome)
	}

	// re-delivery of the same verdict
	rec, env = doJSON(t, mux, stdhttp.MethodPost, "/callback", testToken, cb)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("re-delivered callback: want 200, got %d", rec.Code)
	}
	if err := json.Unmarshal(env.Data, &ack); err != nil {
		t.Fatalf("decode ack: %v", err)
	}
	if ack.Outcome != "already_present" {
		t.Fatalf("re-delivered outcome: want already_present, got %s", ack.Outcome)
	}

	// contradicting verdict is rejected
	cb.Result = false
	rec, _ = doJSON(t, mux, stdhttp.MethodPost, "/callback", testToken, cb)
	if rec.Code != stdhttp.StatusConflict {
		t.Fatalf("conflicting callback: want 409, got %d (%s)", rec.Code, rec.Body.String())
	}

	// and the stored verdict survives
	rec, env = doJSON(t, mux, stdhttp.MethodPost, "/query", "", domain.QueryInput{Message: msg, Signature: sig})
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("query: want 200, got %d", rec.Code)
	}
	var res domain.QueryResult
	if err := json.Unmarshal(env.Data, &res); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if !res.Result {
		t.Fatalf("stored verdict flipped after conflict")
	}
}

func TestStats_CountsVerdicts(t *testing.T) {
	t.Parallel()

	mux := newTestMux(t)

	for i, result := range []bool{true, false} {
		cb := domain.CallbackInput{
			ImageID:   testImage,
			Message:   []byte{byte(i)},
			Signature: []byte("sig"),
			Result:    result,
		}
		rec, _ := doJSON(t, mux, stdhttp.MethodPost, "/callback", testToken, cb)
		if rec.Code != stdhttp.StatusOK {
			t.Fatalf("seed callback %d: got %d", i, rec.Code)
		}
	}

	req := httptest.NewRequest(stdhttp.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("stats: want 200, got %d", rec.Code)
	}

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	var stats domain.Stats
	if err := json.Unmarshal(env.Data, &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.Total != 2 || stats.True != 1 || stats.False != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}
