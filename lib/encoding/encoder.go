// Package encoding turns a component's model snapshot into a URL-safe
// token and back.
//
// Two modes are supported:
//   - Signed (default): msgpack + base64 + truncated HMAC, readable but
//     tamper-proof
//   - Encrypted: msgpack + AES-256-GCM, opaque to clients
package encoding

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"math"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

var (
	ErrInvalidFormat    = errors.New("encoding: invalid token format")
	ErrSignatureInvalid = errors.New("encoding: signature verification failed")
	ErrDecryptFailed    = errors.New("encoding: decryption failed")
)

// sigSize is the number of HMAC bytes kept in signed tokens.
const sigSize = 16

// State is a snapshot of model values keyed by model path.
type State map[string]any

// Encoder seals and opens State tokens with one key.
type Encoder struct {
	key []byte
	gcm cipher.AEAD
}

// NewEncoder derives a 32-byte key from shorter input with SHA-256.
func NewEncoder(key []byte) (*Encoder, error) {
	if len(key) < 32 {
		h := sha256.Sum256(key)
		key = h[:]
	}

	block, err := aes.NewCipher(key[:32])
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Encoder{key: key, gcm: gcm}, nil
}

// Encode seals state. Values travel as msgpack, so only their msgpack
// shape survives Decode: integers come back as int (int64/uint64 when out
// of range), floats as float64, structs and typed maps as map[string]any
// and slices as []any.
//
// Map keys are sorted by msgpack so equal states give
// equal signed tokens.
func (e *Encoder) Encode(state State, sensitive bool) (string, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(map[string]any(state)); err != nil {
		return "", err
	}

	if sensitive {
		return e.encrypt(buf.Bytes())
	}
	return e.sign(buf.Bytes()), nil
}

// Decode opens a token produced by Encode with the same mode.
func (e *Encoder) Decode(token string, sensitive bool) (State, error) {
	var (
		packed []byte
		err    error
	)
	if sensitive {
		packed, err = e.decrypt(token)
	} else {
		packed, err = e.verify(token)
	}
	if err != nil {
		return nil, err
	}

	dec := msgpack.NewDecoder(bytes.NewReader(packed))
	dec.UseLooseInterfaceDecoding(true)
	var state map[string]any
	if err := dec.Decode(&state); err != nil {
		return nil, ErrInvalidFormat
	}
	if state == nil {
		state = map[string]any{}
	}
	for k, v := range state {
		state[k] = normalize(v)
	}
	return State(state), nil
}

// normalize maps decoded integers back to int where they fit, so a value
// stored as int comes back as int rather than whatever width msgpack
// chose. Floats come back as float64.
func normalize(v any) any {
	switch t := v.(type) {
	case int64:
		if int64(int(t)) == t {
			return int(t)
		}
	case uint64:
		if t <= math.MaxInt {
			return int(t)
		}
	case map[string]any:
		for k, e := range t {
			t[k] = normalize(e)
		}
	case []any:
		for i, e := range t {
			t[i] = normalize(e)
		}
	}
	return v
}

// sign produces base64(data).base64(mac)
func (e *Encoder) sign(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data) + "." +
		base64.RawURLEncoding.EncodeToString(e.mac(data))
}

func (e *Encoder) verify(token string) ([]byte, error) {
	body, sig, ok := strings.Cut(token, ".")
	if !ok {
		return nil, ErrInvalidFormat
	}
	data, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return nil, ErrInvalidFormat
	}
	mac, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil {
		return nil, ErrSignatureInvalid
	}
	if !hmac.Equal(mac, e.mac(data)) {
		return nil, ErrSignatureInvalid
	}
	return data, nil
}

func (e *Encoder) mac(data []byte) []byte {
	m := hmac.New(sha256.New, e.key)
	m.Write(data)
	return m.Sum(nil)[:sigSize]
}

func (e *Encoder) encrypt(data []byte) (string, error) {
	nonce := make([]byte, e.gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	sealed := e.gcm.Seal(nonce, nonce, data, nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

func (e *Encoder) decrypt(token string) ([]byte, error) {
	sealed, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, ErrInvalidFormat
	}
	n := e.gcm.NonceSize()
	if len(sealed) < n {
		return nil, ErrDecryptFailed
	}
	data, err := e.gcm.Open(nil, sealed[:n], sealed[n:], nil)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	return data, nil
}
