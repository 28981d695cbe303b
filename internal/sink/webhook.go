// internal/sink/webhook.go
package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"policyfund-intake/internal/common/config"
	stderrors "policyfund-intake/internal/common/errors"
	commonhttp "policyfund-intake/internal/common/http"
	"policyfund-intake/internal/common/logger"
	"policyfund-intake/internal/models"
)

// appendRowRequest is the wire payload the spreadsheet web hook expects.
type appendRowRequest struct {
	Token  string        `json:"token"`
	Action string        `json:"action"`
	Row    []interface{} `json:"row"`
}

// WebhookSink posts each submission row to the spreadsheet web-hook
// endpoint as an append_row action.
type WebhookSink struct {
	url        string
	token      string
	httpClient *commonhttp.Client
	logger     logger.Logger
}

// NewWebhookSink builds a webhook sink from configuration.
func NewWebhookSink(cfg config.WebhookConfig, log logger.Logger) *WebhookSink {
	timeout := time.Duration(cfg.Timeout) * time.Millisecond
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookSink{
		url:        cfg.URL,
		token:      cfg.Token,
		httpClient: commonhttp.NewClient(timeout),
		logger:     log,
	}
}

func (s *WebhookSink) Name() string { return "webhook" }

// Append posts the record's row. The shared token travels in the body, not
// a header, because the receiving script only reads the JSON payload.
func (s *WebhookSink) Append(ctx context.Context, record *models.SubmissionRecord) error {
	payload := appendRowRequest{
		Token:  s.token,
		Action: "append_row",
		Row:    record.Row(),
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return stderrors.NewSinkBadResponseError(s.Name(), fmt.Sprintf("marshal payload: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewBuffer(jsonData))
	if err != nil {
		return stderrors.NewSinkUnreachableError(s.Name(), err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return stderrors.NewSinkUnreachableError(s.Name(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return stderrors.NewSinkBadResponseError(s.Name(), fmt.Sprintf("read response: %v", err))
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return stderrors.NewSinkAuthFailedError(s.Name(), fmt.Sprintf("status %d: %s", resp.StatusCode, string(body)))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return stderrors.NewSinkBadResponseError(s.Name(), fmt.Sprintf("status %d: %s", resp.StatusCode, string(body)))
	}

	// The receiving script answers 200 with {"ok": false} on append errors.
	var ack struct {
		OK *bool `json:"ok"`
	}
	if err := json.Unmarshal(body, &ack); err == nil && ack.OK != nil && !*ack.OK {
		return stderrors.NewSinkBadResponseError(s.Name(), fmt.Sprintf("endpoint reported failure: %s", string(body)))
	}

	s.logger.Debug("Row appended via webhook", map[string]interface{}{
		"submission_id": record.ID,
	})
	return nil
}
