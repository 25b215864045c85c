package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEnvelope(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantKind    EnvelopeKind
		wantPayload string
		wantErrMsg  string
	}{
		{
			name:        "wrapped object",
			body:        `{"data":{"goals":[1,2]},"count":2}`,
			wantKind:    EnvelopeWrapped,
			wantPayload: `{"goals":[1,2]}`,
		},
		{
			name:        "wrapped array",
			body:        `{"data":[{"id":"c1"}]}`,
			wantKind:    EnvelopeWrapped,
			wantPayload: `[{"id":"c1"}]`,
		},
		{
			name:        "bare object",
			body:        `{"goals":[1,2]}`,
			wantKind:    EnvelopeBare,
			wantPayload: `{"goals":[1,2]}`,
		},
		{
			name:        "bare array",
			body:        ` [1,2,3] `,
			wantKind:    EnvelopeBare,
			wantPayload: `[1,2,3]`,
		},
		{
			name:        "null data falls back to whole body",
			body:        `{"data":null,"items":[]}`,
			wantKind:    EnvelopeBare,
			wantPayload: `{"data":null,"items":[]}`,
		},
		{
			name:        "embedded string error",
			body:        `{"data":null,"error":"watchlist limit reached"}`,
			wantKind:    EnvelopeBare,
			wantPayload: `{"data":null,"error":"watchlist limit reached"}`,
			wantErrMsg:  "watchlist limit reached",
		},
		{
			name:        "embedded object error",
			body:        `{"error":{"message":"company not found","code":"P0002"}}`,
			wantKind:    EnvelopeBare,
			wantPayload: `{"error":{"message":"company not found","code":"P0002"}}`,
			wantErrMsg:  "company not found",
		},
		{
			name:        "null error is ignored",
			body:        `{"data":[1],"error":null}`,
			wantKind:    EnvelopeWrapped,
			wantPayload: `[1]`,
		},
		{
			name:        "empty string error is ignored",
			body:        `{"data":[1],"error":""}`,
			wantKind:    EnvelopeWrapped,
			wantPayload: `[1]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := DecodeEnvelope([]byte(tt.body))
			require.NoError(t, err)

			assert.Equal(t, tt.wantKind, env.Kind)
			assert.JSONEq(t, tt.wantPayload, string(env.Payload))
			if tt.wantErrMsg == "" {
				assert.Nil(t, env.Error)
			} else {
				require.NotNil(t, env.Error)
				assert.Equal(t, tt.wantErrMsg, env.Error.Message)
			}
		})
	}
}

func TestDecodeEnvelope_Empty(t *testing.T) {
	env, err := DecodeEnvelope([]byte("  \n"))
	require.NoError(t, err)
	assert.Equal(t, EnvelopeBare, env.Kind)
	assert.Nil(t, env.Payload)
}

func TestDecodeEnvelope_Malformed(t *testing.T) {
	_, err := DecodeEnvelope([]byte(`{"data":`))
	assert.ErrorIs(t, err, ErrMalformedBody)

	_, err = DecodeEnvelope([]byte(`<html>oops</html>`))
	assert.ErrorIs(t, err, ErrMalformedBody)
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		want   string
	}{
		{name: "error string", body: `{"error":"invalid company id"}`, status: 400, want: "invalid company id"},
		{name: "error object", body: `{"error":{"message":"duplicate entry"}}`, status: 409, want: "duplicate entry"},
		{name: "message only", body: `{"message":"rate limited"}`, status: 429, want: "rate limited"},
		{name: "msg", body: `{"code":400,"msg":"Invalid Refresh Token"}`, status: 400, want: "Invalid Refresh Token"},
		{name: "oauth style", body: `{"error":"invalid_grant","error_description":"Invalid login credentials"}`, status: 400, want: "Invalid login credentials"},
		{name: "empty body", body: ``, status: 502, want: "request failed with status 502"},
		{name: "html body", body: `<h1>Bad gateway</h1>`, status: 502, want: "request failed with status 502"},
		{name: "empty object", body: `{}`, status: 500, want: "request failed with status 500"},
		{name: "array", body: `["x"]`, status: 400, want: "request failed with status 400"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorMessage([]byte(tt.body), tt.status))
		})
	}
}

func TestEnvelopeKind_String(t *testing.T) {
	assert.Equal(t, "bare", EnvelopeBare.String())
	assert.Equal(t, "wrapped", EnvelopeWrapped.String())
}
