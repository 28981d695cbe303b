// internal/models/submission.go
package models

import "time"

// SubmissionRecord is the write-once output of a completed wizard session.
// It is appended to the external store and never read back.
type SubmissionRecord struct {
	ID                   string       `json:"id"`
	SubmittedAt          time.Time    `json:"submittedAt"`
	CustomerName         string       `json:"customerName"`
	PhoneFormatted       string       `json:"phoneFormatted"`
	CompanyName          string       `json:"companyName"`
	BusinessType         BusinessType `json:"businessType"`
	Industry             Industry     `json:"industry"`
	TenureBucket         TenureBucket `json:"tenureBucket"`
	TenureMonths         int          `json:"tenureMonths"`
	MonthlyRevenueManwon int          `json:"monthlyRevenueManwon"`
	TaxStatus            TaxStatus    `json:"taxStatus"`
	RiskFlag             bool         `json:"riskFlag"`
	Grade                Grade        `json:"grade"`
}

// NewSubmissionRecord assembles the record from a completed profile,
// checklist outcome, and grade.
func NewSubmissionRecord(id string, submittedAt time.Time, profile *ApplicantProfile, anyYes bool, grade Grade) *SubmissionRecord {
	return &SubmissionRecord{
		ID:                   id,
		SubmittedAt:          submittedAt,
		CustomerName:         profile.CustomerName,
		PhoneFormatted:       profile.PhoneFormatted,
		CompanyName:          profile.CompanyName,
		BusinessType:         profile.BusinessType,
		Industry:             profile.Industry,
		TenureBucket:         profile.TenureBucket,
		TenureMonths:         profile.TenureMonths,
		MonthlyRevenueManwon: profile.MonthlyRevenueManwon,
		TaxStatus:            profile.TaxStatus,
		RiskFlag:             anyYes,
		Grade:                grade,
	}
}

// Row renders the 13 ordered scalar fields every sink implementation writes:
// timestamp, name, phone, company, business type, industry, tenure label,
// tenure months, revenue, tax status, risk flag, grade label, grade summary.
func (r *SubmissionRecord) Row() []interface{} {
	return []interface{}{
		r.SubmittedAt.Format("2006-01-02 15:04:05"),
		r.CustomerName,
		r.PhoneFormatted,
		r.CompanyName,
		string(r.BusinessType),
		string(r.Industry),
		string(r.TenureBucket),
		r.TenureMonths,
		r.MonthlyRevenueManwon,
		string(r.TaxStatus),
		RiskFlagLabel(r.RiskFlag),
		r.Grade.Label(),
		r.Grade.Summary(),
	}
}
