package model

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"hash"
	"strings"
)

// Digest is a parsed Digest request header: "<alg>=<base64>".
type Digest struct {
	Algorithm string
	Value     []byte
}

// ParseDigest parses a Digest header value. An empty header returns the zero
// Digest with ok=false. A malformed or unsupported-algorithm header is a 400
// per §4.6 step 5.
func ParseDigest(raw string) (Digest, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Digest{}, false, nil
	}
	alg, b64, ok := strings.Cut(raw, "=")
	if !ok {
		return Digest{}, false, errMalformed("Digest")
	}
	alg = strings.ToUpper(strings.TrimSpace(alg))
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(b64))
	if err != nil {
		return Digest{}, false, errMalformed("Digest")
	}
	if !SupportedDigestAlgorithm(alg) {
		return Digest{}, false, errMalformed("Digest")
	}
	return Digest{Algorithm: alg, Value: decoded}, true, nil
}

// SupportedDigestAlgorithm reports whether alg is one of the algorithms this
// engine can verify.
func SupportedDigestAlgorithm(alg string) bool {
	switch alg {
	case "MD5", "SHA", "SHA-256":
		return true
	default:
		return false
	}
}

// newHash returns the hash.Hash implementing d.Algorithm.
func (d Digest) newHash() (hash.Hash, error) {
	switch d.Algorithm {
	case "MD5":
		return md5.New(), nil
	case "SHA":
		return sha1.New(), nil
	case "SHA-256":
		return sha256.New(), nil
	default:
		return nil, fmt.Errorf("unsupported digest algorithm %q", d.Algorithm)
	}
}

// Verify computes the digest of body and reports whether it equals d.Value.
func (d Digest) Verify(body []byte) (bool, error) {
	h, err := d.newHash()
	if err != nil {
		return false, err
	}
	h.Write(body)
	return string(h.Sum(nil)) == string(d.Value), nil
}
