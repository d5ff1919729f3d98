package hints

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, url string) *HTTPProvider {
	t.Helper()
	p, err := NewHTTPProvider(Config{URL: url, Timeout: 2 * time.Second, RetryAttempts: 3},
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	p.retry.InitialDelay = time.Millisecond
	p.retry.MaxDelay = 5 * time.Millisecond
	return p
}

func TestHTTPProvider_Hints(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer func() { _ = file.Close() }()
		body, _ := io.ReadAll(file)
		assert.Equal(t, "tb.xlsx", header.Filename)
		assert.Equal(t, "payload", string(body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"labels":[{"text":"Debit","confidence":0.95,"type":"debit"}]}`))
	}))
	defer server.Close()

	p := newTestProvider(t, server.URL)
	got, err := p.Hints(context.Background(), "/tmp/uploads/tb.xlsx", []byte("payload"))
	require.NoError(t, err)
	assert.Equal(t, []model.LabelHint{{Text: "Debit", Confidence: 0.95, Type: model.HintDebit}}, got)
}

func TestHTTPProvider_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	p := newTestProvider(t, server.URL)
	got, err := p.Hints(context.Background(), "tb.csv", []byte("a,b"))
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPProvider_ClientErrorIsPermanent(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "unsupported file", http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	p := newTestProvider(t, server.URL)
	_, err := p.Hints(context.Background(), "tb.csv", []byte("a,b"))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrHintService)
	assert.Contains(t, err.Error(), "status 422")
	assert.Equal(t, int32(1), calls.Load())
}

func TestHTTPProvider_GivesUp(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	p := newTestProvider(t, server.URL)
	_, err := p.Hints(context.Background(), "tb.csv", nil)
	assert.ErrorIs(t, err, common.ErrMaxRetries)
	assert.ErrorIs(t, err, common.ErrHintService)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		target  error
		cfg     Config
		wantErr bool
	}{
		{name: "valid", cfg: Config{URL: "http://localhost:9000/labels", MinConfidence: 0.5}},
		{name: "missing url", cfg: Config{}, wantErr: true, target: common.ErrMissingConfig},
		{name: "negative timeout", cfg: Config{URL: "http://x", Timeout: -time.Second}, wantErr: true, target: common.ErrInvalidConfig},
		{name: "confidence out of range", cfg: Config{URL: "http://x", MinConfidence: 2}, wantErr: true, target: common.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, tt.target)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFileProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hints.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"labels":[{"text":"Credit","confidence":0.7,"type":"credit"}]}`), 0o600))

	got, err := FileProvider{Path: path}.Hints(context.Background(), "ignored.xlsx", nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.HintCredit, got[0].Type)

	_, err = FileProvider{Path: filepath.Join(t.TempDir(), "missing.json")}.Hints(context.Background(), "", nil)
	assert.Error(t, err)
}
