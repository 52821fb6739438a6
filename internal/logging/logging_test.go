package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(Config{Level: "debug", Format: "json"}, &buf).WithComponent("dispatcher")

	l.Error("engine failed", errors.New("boom"), map[string]any{"engine": "screening"})

	var ev map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &ev))
	assert.Equal(t, "error", ev["level"])
	assert.Equal(t, "engine failed", ev["message"])
	assert.Equal(t, "boom", ev["error"])
	assert.Equal(t, "dispatcher", ev[FieldComponent])
	assert.Equal(t, "screening", ev["engine"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(Config{Level: "warn", Format: "json"}, &buf)
	l.Info("hidden")
	assert.Zero(t, buf.Len())
	l.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestContextRoundTrip(t *testing.T) {
	l := Nop().With(FieldRequestID, "abc")
	ctx := IntoContext(context.Background(), l)
	assert.Same(t, l, FromContext(ctx, nil))

	fb := Nop()
	assert.Same(t, fb, FromContext(context.Background(), fb))
	assert.NotNil(t, FromContext(context.Background(), nil))
}
