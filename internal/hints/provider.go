package hints

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/service"
)

// Config configures the HTTP label service client.
type Config struct {
	URL           string
	Timeout       time.Duration
	RetryAttempts int
	MinConfidence float64
}

// Validate ensures the configuration is usable.
func (c Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("%w: hints.url is required", common.ErrMissingConfig)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: hints.timeout must not be negative", common.ErrInvalidConfig)
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("%w: hints.min_confidence must be between 0 and 1", common.ErrInvalidConfig)
	}
	return nil
}

// HTTPProvider uploads a spreadsheet to the label service and returns the
// labels it recognized.
type HTTPProvider struct {
	httpClient *http.Client
	logger     *slog.Logger
	url        string
	retry      service.RetryOptions
}

// NewHTTPProvider creates a label service client.
func NewHTTPProvider(cfg Config, logger *slog.Logger) (*HTTPProvider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	attempts := cfg.RetryAttempts
	if attempts <= 0 {
		attempts = 3
	}

	return &HTTPProvider{
		url:    cfg.URL,
		logger: logger,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		retry: service.RetryOptions{
			MaxAttempts:  attempts,
			InitialDelay: 200 * time.Millisecond,
			MaxDelay:     5 * time.Second,
			Multiplier:   2.0,
		},
	}, nil
}

// Hints posts the file as multipart form data and parses the response.
func (p *HTTPProvider) Hints(ctx context.Context, filename string, data []byte) ([]model.LabelHint, error) {
	var labels []model.LabelHint

	err := common.WithRetry(ctx, func() error {
		var err error
		labels, err = p.fetch(ctx, filename, data)
		return err
	}, p.retry)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrHintService, err)
	}

	p.logger.Debug("Received label hints", "file", filename, "count", len(labels))
	return labels, nil
}

func (p *HTTPProvider) fetch(ctx context.Context, filename string, data []byte) ([]model.LabelHint, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, common.Permanent(fmt.Errorf("failed to create form file: %w", err))
	}
	if _, err := part.Write(data); err != nil {
		return nil, common.Permanent(fmt.Errorf("failed to write form file: %w", err))
	}
	if err := form.Close(); err != nil {
		return nil, common.Permanent(fmt.Errorf("failed to close form: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, &body)
	if err != nil {
		return nil, common.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, common.Permanent(err)
		}
		return nil, &common.RetryableError{Err: fmt.Errorf("request failed: %w", err), Retryable: true}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &common.RetryableError{Err: fmt.Errorf("failed to read response: %w", err), Retryable: true}
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, common.ErrRateLimit
	case resp.StatusCode >= 500:
		return nil, &common.RetryableError{
			Err:       fmt.Errorf("label service error (status %d): %s", resp.StatusCode, string(respBody)),
			Retryable: true,
		}
	case resp.StatusCode != http.StatusOK:
		return nil, common.Permanent(fmt.Errorf("label service error (status %d): %s", resp.StatusCode, string(respBody)))
	}

	labels, err := Parse(respBody)
	if err != nil {
		return nil, common.Permanent(err)
	}
	return labels, nil
}

// FileProvider serves hints stored in a JSON file, ignoring the spreadsheet.
type FileProvider struct {
	Path string
}

// Hints reads and parses the hint file.
func (p FileProvider) Hints(_ context.Context, _ string, _ []byte) ([]model.LabelHint, error) {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read hint file: %w", err)
	}
	return Parse(data)
}

// Static serves a fixed set of hints.
type Static []model.LabelHint

// Hints returns the fixed hints.
func (s Static) Hints(context.Context, string, []byte) ([]model.LabelHint, error) {
	return s, nil
}

var (
	_ service.HintProvider = (*HTTPProvider)(nil)
	_ service.HintProvider = FileProvider{}
	_ service.HintProvider = Static(nil)
)
