package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// ErrMalformedBody indicates that a response body is not valid JSON
var ErrMalformedBody = errors.New("malformed response body")

// EnvelopeKind tells which of the two accepted response shapes was received
type EnvelopeKind int

const (
	// EnvelopeBare - тело ответа и есть payload
	EnvelopeBare EnvelopeKind = iota
	// EnvelopeWrapped - payload лежит в поле data
	EnvelopeWrapped
)

// String returns shape name
func (k EnvelopeKind) String() string {
	if k == EnvelopeWrapped {
		return "wrapped"
	}
	return "bare"
}

// Envelope is the decoded form of a successful response body
type Envelope struct {
	// Error is set when a 2xx body carries a non-empty "error" field
	Error   *BusinessError
	Payload json.RawMessage
	Kind    EnvelopeKind
}

// BusinessError is an "error" field embedded in an otherwise successful response
type BusinessError struct {
	Message string
	Raw     json.RawMessage
}

// DecodeEnvelope classifies a 2xx response body.
// An object with a non-null "data" member is Wrapped and its payload is that
// member; anything else is Bare and the payload is the whole body.
// An empty body yields a Bare envelope with nil payload.
func DecodeEnvelope(body []byte) (*Envelope, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return &Envelope{Kind: EnvelopeBare}, nil
	}

	if !gjson.ValidBytes(trimmed) {
		return nil, ErrMalformedBody
	}

	root := gjson.ParseBytes(trimmed)
	env := &Envelope{
		Kind:    EnvelopeBare,
		Payload: json.RawMessage(trimmed),
	}

	if !root.IsObject() {
		return env, nil
	}

	if errField := root.Get("error"); isSet(errField) {
		env.Error = &BusinessError{
			Message: messageOf(errField),
			Raw:     json.RawMessage(errField.Raw),
		}
	}

	if data := root.Get("data"); data.Exists() && data.Type != gjson.Null {
		env.Kind = EnvelopeWrapped
		env.Payload = json.RawMessage(data.Raw)
	}

	return env, nil
}

// ErrorMessage extracts a human readable message from an error response body.
// Accepted shapes: {"error":"..."}, {"error":{"message":"..."}}, {"message":"..."},
// {"msg":"..."}, {"error_description":"..."}. Unparseable or empty bodies give
// a generic status-derived message.
func ErrorMessage(body []byte, status int) string {
	fallback := fmt.Sprintf("request failed with status %d", status)

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || !gjson.ValidBytes(trimmed) {
		return fallback
	}

	root := gjson.ParseBytes(trimmed)
	if !root.IsObject() {
		return fallback
	}

	if errField := root.Get("error"); isSet(errField) {
		if msg := messageOf(errField); msg != "" {
			// error_description уточняет короткий код ошибки
			if desc := root.Get("error_description"); desc.Type == gjson.String && desc.Str != "" {
				return desc.Str
			}
			return msg
		}
	}

	for _, path := range []string{"message", "msg", "error_description"} {
		if v := root.Get(path); v.Type == gjson.String && v.Str != "" {
			return v.Str
		}
	}

	return fallback
}

// isSet reports whether an "error" member carries an actual error
func isSet(v gjson.Result) bool {
	switch v.Type {
	case gjson.String:
		return v.Str != ""
	case gjson.JSON:
		return true
	case gjson.True:
		return true
	default:
		// отсутствует, null, false, число
		return false
	}
}

func messageOf(v gjson.Result) string {
	switch {
	case v.Type == gjson.String:
		return v.Str
	case v.IsObject():
		for _, path := range []string{"message", "msg", "description"} {
			if m := v.Get(path); m.Type == gjson.String && m.Str != "" {
				return m.Str
			}
		}
		return v.Raw
	default:
		return v.Raw
	}
}
