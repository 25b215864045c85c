package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArea(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Area
		wantErr bool
	}{
		{name: "durable", input: "durable", want: AreaDurable},
		{name: "empty defaults to durable", input: "", want: AreaDurable},
		{name: "session", input: "session", want: AreaSession},
		{name: "unknown", input: "cloud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseArea(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownArea)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAdapter_RoutesByArea(t *testing.T) {
	ctx := context.Background()

	durable := &KVStoreMock{
		GetFunc: func(ctx context.Context, key string) ([]byte, error) {
			return []byte("durable:" + key), nil
		},
		SetFunc: func(ctx context.Context, key string, value []byte) error {
			return nil
		},
	}
	session := &KVStoreMock{
		GetFunc: func(ctx context.Context, key string) ([]byte, error) {
			return nil, ErrKeyNotFound
		},
		DeleteFunc: func(ctx context.Context, key string) error {
			return nil
		},
	}

	adapter := NewAdapter(durable, session)

	got, err := adapter.Get(ctx, AreaDurable, "k")
	require.NoError(t, err)
	assert.Equal(t, "durable:k", string(got))

	_, err = adapter.Get(ctx, AreaSession, "k")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, adapter.Set(ctx, AreaDurable, "k", []byte("v")))
	require.NoError(t, adapter.Delete(ctx, AreaSession, "k"))

	assert.Len(t, durable.GetCalls(), 1)
	assert.Len(t, durable.SetCalls(), 1)
	assert.Len(t, session.GetCalls(), 1)
	assert.Len(t, session.DeleteCalls(), 1)
}

func TestAdapter_MissingArea(t *testing.T) {
	adapter := NewAdapter(nil, nil)

	_, err := adapter.Get(context.Background(), AreaSession, "k")
	assert.True(t, errors.Is(err, ErrUnknownArea))

	err = adapter.Set(context.Background(), Area(7), "k", nil)
	assert.ErrorIs(t, err, ErrUnknownArea)
}

func TestArea_String(t *testing.T) {
	assert.Equal(t, "durable", AreaDurable.String())
	assert.Equal(t, "session", AreaSession.String())
	assert.Equal(t, "area(5)", Area(5).String())
}
