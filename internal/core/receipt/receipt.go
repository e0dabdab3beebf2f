// Package receipt defines the verification request value type and its
// content-addressed digest. The digest is the correlation key between a
// dispatched request and the callback that later delivers its result, and
// the cache key under which the result is stored.
package receipt

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// DigestSize is the width of a content digest in bytes
const DigestSize = 32

// Request is a verification request: a message and an aggregate signature
// over it. Value type; two requests with equal fields are the same request.
type Request struct {
	Message   []byte
	Signature []byte
}

// Digest is the fixed-width content address of a Request
type Digest [DigestSize]byte

// String returns the lowercase hex encoding
func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// ParseDigest decodes a 64-char hex string into a Digest
func ParseDigest(s string) (Digest, error) {
	var d Digest
	if len(s) != DigestSize*2 {
		return d, fmt.Errorf("receipt: digest must be %d hex chars, got %d", DigestSize*2, len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return d, fmt.Errorf("receipt: invalid digest hex: %w", err)
	}
	copy(d[:], b)
	return d, nil
}

// Encode returns the canonical encoding of req: each field is framed with a
// big-endian u32 length prefix. The framing keeps distinct (message,
// signature) pairs distinct; plain concatenation would confuse
// ("ab","c") with ("a","bc").
func Encode(req Request) []byte {
	out := make([]byte, 0, 8+len(req.Message)+len(req.Signature))
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(req.Message)))
	out = append(out, n[:]...)
	out = append(out, req.Message...)
	binary.BigEndian.PutUint32(n[:], uint32(len(req.Signature)))
	out = append(out, n[:]...)
	out = append(out, req.Signature...)
	return out
}

// Decode parses a canonical encoding back into a Request
func Decode(b []byte) (Request, error) {
	msg, rest, err := readFrame(b)
	if err != nil {
		return Request{}, fmt.Errorf("receipt: message frame: %w", err)
	}
	sig, rest, err := readFrame(rest)
	if err != nil {
		return Request{}, fmt.Errorf("receipt: signature frame: %w", err)
	}
	if len(rest) != 0 {
		return Request{}, fmt.Errorf("receipt: %d trailing bytes", len(rest))
	}
	return Request{Message: msg, Signature: sig}, nil
}

func readFrame(b []byte) (frame, rest []byte, err error) {
	if len(b) < 4 {
		return nil, nil, fmt.Errorf("short length prefix (%d bytes)", len(b))
	}
	n := binary.BigEndian.Uint32(b[:4])
	b = b[4:]
	if uint32(len(b)) < n {
		return nil, nil, fmt.Errorf("frame wants %d bytes, have %d", n, len(b))
	}
	return b[:n:n], b[n:], nil
}

// Derive computes the Blake2b-256 digest of the canonical encoding.
// Deterministic and total; identical requests always share a digest.
func Derive(req Request) Digest {
	return Digest(blake2b.Sum256(Encode(req)))
}
