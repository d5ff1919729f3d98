package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/grid"
	"github.com/Veraticus/tally/internal/service"
)

// ErrNoSheets is returned when a spreadsheet has no worksheets.
var ErrNoSheets = errors.New("spreadsheet has no sheets")

// Reader loads the first worksheet of a Google spreadsheet as a grid.
type Reader struct {
	service *sheets.Service
	logger  *slog.Logger
	retry   service.RetryOptions
}

// NewReader authenticates with Google and returns a Reader.
func NewReader(ctx context.Context, config Config, logger *slog.Logger) (*Reader, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sheets config: %w", err)
	}

	httpClient, err := authenticatedClient(ctx, config)
	if err != nil {
		return nil, err
	}

	return NewReaderWithOptions(ctx, config, logger, option.WithHTTPClient(httpClient))
}

// NewReaderWithOptions builds a Reader from explicit client options, skipping
// credential handling.
func NewReaderWithOptions(ctx context.Context, config Config, logger *slog.Logger, opts ...option.ClientOption) (*Reader, error) {
	if logger == nil {
		logger = slog.Default()
	}

	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	delay := config.RetryDelay
	if delay <= 0 {
		delay = time.Second
	}

	return &Reader{
		service: srv,
		logger:  logger,
		retry: service.RetryOptions{
			MaxAttempts:  config.RetryAttempts + 1,
			InitialDelay: delay,
			MaxDelay:     10 * delay,
			Multiplier:   2.0,
		},
	}, nil
}

// authenticatedClient returns an HTTP client carrying either service account or
// refresh token credentials.
func authenticatedClient(ctx context.Context, config Config) (*http.Client, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsReadonlyScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		oauthConfig := &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{sheets.SpreadsheetsReadonlyScope},
		}

		token := &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		}

		tokenSource = oauthConfig.TokenSource(ctx, token)
	}

	return oauth2.NewClient(ctx, tokenSource), nil
}

// Read fetches the first worksheet of the spreadsheet with the given ID.
func (r *Reader) Read(ctx context.Context, spreadsheetID string) (*grid.Grid, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("%w: spreadsheet ID is required", common.ErrMissingConfig)
	}

	var title string
	err := common.WithRetry(ctx, func() error {
		spreadsheet, err := r.service.Spreadsheets.Get(spreadsheetID).
			Fields("sheets.properties.title").
			Context(ctx).
			Do()
		if err != nil {
			return classify(err)
		}
		if len(spreadsheet.Sheets) == 0 || spreadsheet.Sheets[0].Properties == nil {
			return common.Permanent(ErrNoSheets)
		}
		title = spreadsheet.Sheets[0].Properties.Title
		return nil
	}, r.retry)
	if err != nil {
		return nil, fmt.Errorf("failed to get spreadsheet %s: %w", spreadsheetID, err)
	}

	var values [][]any
	err = common.WithRetry(ctx, func() error {
		resp, err := r.service.Spreadsheets.Values.Get(spreadsheetID, quoteSheet(title)).
			ValueRenderOption("UNFORMATTED_VALUE").
			Context(ctx).
			Do()
		if err != nil {
			return classify(err)
		}
		values = resp.Values
		return nil
	}, r.retry)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", title, err)
	}

	r.logger.Info("Read Google Sheet",
		"spreadsheet_id", spreadsheetID,
		"sheet", title,
		"rows", len(values))

	return grid.FromValues(title, toText(values)), nil
}

// classify marks rate limits and server failures as retryable.
func classify(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= 500 {
			return &common.RetryableError{Err: err, Retryable: true}
		}
		return common.Permanent(err)
	}
	return err
}

// quoteSheet builds an A1 range covering the whole named sheet.
func quoteSheet(title string) string {
	quoted := "'"
	for _, r := range title {
		if r == '\'' {
			quoted += "''"
			continue
		}
		quoted += string(r)
	}
	return quoted + "'"
}

func toText(values [][]any) [][]string {
	rows := make([][]string, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = cellText(v)
		}
		rows[i] = cells
	}
	return rows
}

func cellText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
