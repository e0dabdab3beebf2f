package http

import (
	"net/http"

	"github.com/samtvlabs/bonsai-experiment/internal/platform/net/http/bind"
)

// JSONHandler adapts a pure JSON handler to a platform Handler
func JSONHandler[T any](fn func(*http.Request, T) (any, error)) Handler {
	return Handle(func(r *http.Request) Response {
		in, err := bind.ParseJSON[T](r)
		if err != nil {
			return Error(err)
		}
		out, err := fn(r, in)
		if err != nil {
			return Error(err)
		}
		return OK(out)
	})
}

// JSONHandlerMax is JSONHandler with an explicit body byte cap.
// maxBytes <= 0 keeps the bind default. A Response returned by fn
// passes through so handlers can pick their own success status.
func JSONHandlerMax[T any](maxBytes int64, fn func(*http.Request, T) (any, error)) Handler {
	opts := bind.JSONOptions{MaxBytes: maxBytes, DisallowUnknown: true}
	if maxBytes <= 0 {
		opts.MaxBytes = 1 << 20
	}
	return Handle(func(r *http.Request) Response {
		in, err := bind.ParseJSON[T](r, opts)
		if err != nil {
			return Error(err)
		}
		out, err := fn(r, in)
		if err != nil {
			return Error(err)
		}
		if resp, ok := out.(Response); ok {
			return resp
		}
		return OK(out)
	})
}

// JSONHandlerNoBody calls fn without parsing a request body and wraps the result
func JSONHandlerNoBody(fn func(*http.Request) (any, error)) Handler {
	return Handle(func(r *http.Request) Response {
		out, err := fn(r)
		if err != nil {
			return Error(err)
		}
		return OK(out)
	})
}
