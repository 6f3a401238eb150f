package stt

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRemoteEngine_RejectsInsecureEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
	}{
		{"plain http", "http://stt.example.com/recognize"},
		{"no scheme", "stt.example.com/recognize"},
		{"ws scheme", "ws://stt.example.com/recognize"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRemoteEngine(tt.endpoint)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInsecureEndpoint)
		})
	}
}

func TestRemoteEngine_RecognizesBufferedUtterance(t *testing.T) {
	var gotBody []byte
	var gotSampleRate, gotLanguage string

	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotSampleRate = r.Header.Get("X-Sample-Rate")
		gotLanguage = r.Header.Get("X-Language")
		_ = json.NewEncoder(w).Encode(remoteResult{Text: "hola mundo", Confidence: 0.93})
	}))
	defer server.Close()

	engine, err := NewRemoteEngineWithClient(server.URL, server.Client())
	require.NoError(t, err)
	require.NoError(t, engine.Initialize(DefaultConfig("")))

	ctx := context.Background()
	partial, err := engine.ProcessAudio(ctx, []byte{1, 2, 3})
	require.NoError(t, err)
	assert.True(t, partial.Partial)

	_, err = engine.ProcessAudio(ctx, []byte{4, 5})
	require.NoError(t, err)

	result, err := engine.FinalResult()
	require.NoError(t, err)
	assert.Equal(t, "hola mundo", result.Text)
	assert.False(t, result.Partial)
	assert.InDelta(t, 0.93, result.Confidence, 0.001)

	assert.Equal(t, []byte{1, 2, 3, 4, 5}, gotBody)
	assert.Equal(t, "16000", gotSampleRate)
	assert.Equal(t, "es-ES", gotLanguage)
}

func TestRemoteEngine_FinalResultWithoutAudio(t *testing.T) {
	engine, err := NewRemoteEngine("https://stt.example.com/recognize")
	require.NoError(t, err)
	require.NoError(t, engine.Initialize(DefaultConfig("")))

	result, err := engine.FinalResult()
	require.NoError(t, err)
	assert.Empty(t, result.Text)
}

func TestRemoteEngine_ResetDiscardsBuffer(t *testing.T) {
	engine, err := NewRemoteEngine("https://stt.example.com/recognize")
	require.NoError(t, err)
	require.NoError(t, engine.Initialize(DefaultConfig("")))

	_, err = engine.ProcessAudio(context.Background(), []byte{9, 9})
	require.NoError(t, err)
	require.NoError(t, engine.Reset())

	// Empty buffer short-circuits before any network call
	result, err := engine.FinalResult()
	require.NoError(t, err)
	assert.Empty(t, result.Text)
}

func TestRemoteEngine_ServiceError(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	engine, err := NewRemoteEngineWithClient(server.URL, server.Client())
	require.NoError(t, err)
	require.NoError(t, engine.Initialize(DefaultConfig("")))

	_, err = engine.ProcessAudio(context.Background(), []byte{1})
	require.NoError(t, err)

	_, err = engine.FinalResult()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestRemoteEngine_RequiresInitialization(t *testing.T) {
	engine, err := NewRemoteEngine("https://stt.example.com/recognize")
	require.NoError(t, err)

	_, err = engine.ProcessAudio(context.Background(), []byte{1})
	assert.Error(t, err)

	_, err = engine.FinalResult()
	assert.Error(t, err)
}
