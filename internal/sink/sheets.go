// internal/sink/sheets.go
package sink

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"policyfund-intake/internal/common/config"
	stderrors "policyfund-intake/internal/common/errors"
	"policyfund-intake/internal/common/logger"
	"policyfund-intake/internal/models"
)

// SheetsSink appends submission rows directly through the managed
// spreadsheet API instead of the web-hook relay.
type SheetsSink struct {
	service       *sheets.Service
	spreadsheetID string
	sheetRange    string
	logger        logger.Logger
}

// NewSheetsSink builds the API client from a service-account credentials
// file and verifies the target spreadsheet id is set.
func NewSheetsSink(ctx context.Context, cfg config.SheetsConfig, log logger.Logger) (*SheetsSink, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("sheets sink requires a spreadsheet id")
	}

	svc, err := sheets.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsFile))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	sheetRange := cfg.SheetRange
	if sheetRange == "" {
		sheetRange = "A:M"
	}

	return &SheetsSink{
		service:       svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetRange:    sheetRange,
		logger:        log,
	}, nil
}

func (s *SheetsSink) Name() string { return "sheets" }

// Append writes one row to the configured range.
func (s *SheetsSink) Append(ctx context.Context, record *models.SubmissionRecord) error {
	values := &sheets.ValueRange{
		Values: [][]interface{}{record.Row()},
	}

	_, err := s.service.Spreadsheets.Values.
		Append(s.spreadsheetID, s.sheetRange, values).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return stderrors.NewSinkUnreachableError(s.Name(), err)
	}

	s.logger.Debug("Row appended via sheets API", map[string]interface{}{
		"submission_id":  record.ID,
		"spreadsheet_id": s.spreadsheetID,
	})
	return nil
}
