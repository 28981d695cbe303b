// internal/sink/postgres.go
package sink

import (
	"context"
	"database/sql"
	"encoding/json"

	stderrors "policyfund-intake/internal/common/errors"
	"policyfund-intake/internal/common/logger"
	"policyfund-intake/internal/models"
)

// PostgresSink inserts each submission into the submissions table and
// writes a non-critical audit_log entry alongside it.
type PostgresSink struct {
	db     *sql.DB
	logger logger.Logger
}

// NewPostgresSink wraps an open database handle.
func NewPostgresSink(db *sql.DB, log logger.Logger) *PostgresSink {
	return &PostgresSink{
		db:     db,
		logger: log,
	}
}

func (s *PostgresSink) Name() string { return "postgres" }

// Append inserts the submission record. The audit log insert is best
// effort: its failure is logged but never propagated.
func (s *PostgresSink) Append(ctx context.Context, record *models.SubmissionRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO submissions (
			id, submitted_at, customer_name, phone, company_name,
			business_type, industry, tenure_bucket, tenure_months,
			monthly_revenue_manwon, tax_status, risk_flag, grade
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		record.ID,
		record.SubmittedAt.UTC(),
		record.CustomerName,
		record.PhoneFormatted,
		record.CompanyName,
		string(record.BusinessType),
		string(record.Industry),
		string(record.TenureBucket),
		record.TenureMonths,
		record.MonthlyRevenueManwon,
		string(record.TaxStatus),
		record.RiskFlag,
		string(record.Grade),
	)
	if err != nil {
		return stderrors.NewDatabaseInsertFailedError(err)
	}

	detailsJSON, err := json.Marshal(map[string]interface{}{
		"grade":    string(record.Grade),
		"riskFlag": record.RiskFlag,
	})
	if err != nil {
		detailsJSON = []byte("{}")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO audit_log (event_type, resource_type, resource_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		"submission_created",
		"submission",
		record.ID,
		detailsJSON,
		record.SubmittedAt.UTC(),
	)
	if err != nil {
		s.logger.Warn("Audit log insert failed", map[string]interface{}{
			"error":         err,
			"submission_id": record.ID,
		})
	}

	s.logger.Info("Submission record inserted", map[string]interface{}{
		"submission_id": record.ID,
		"grade":         string(record.Grade),
	})
	return nil
}
