// internal/models/applicant.go
package models

// BusinessType is the applicant's registration type. The literal values are
// the Korean labels shown on the form and written to the submission record.
type BusinessType string

const (
	BusinessTypeUnset       BusinessType = "선택"
	BusinessTypeIndividual  BusinessType = "개인"
	BusinessTypeCorporation BusinessType = "법인"
)

// Industry is the applicant's declared line of business.
type Industry string

const (
	IndustryUnset         Industry = "선택"
	IndustryFoodService   Industry = "음식점"
	IndustryManufacturing Industry = "제조"
	IndustryWholesale     Industry = "도소매"
	IndustryServices      Industry = "서비스"
	IndustryOther         Industry = "기타"
)

// TenureBucket is the applicant's self-declared business age category.
type TenureBucket string

const (
	TenureUnderOneYear TenureBucket = "1년 미만"
	TenureOneToThree   TenureBucket = "1~3년"
	TenureThreePlus    TenureBucket = "3년 이상"
)

// TaxStatus indicates whether the applicant has delinquent taxes.
type TaxStatus string

const (
	TaxStatusCurrent    TaxStatus = "완납"
	TaxStatusDelinquent TaxStatus = "체납"
)

// IntakeDraft holds the raw step-1 form fields before validation. Drafts are
// preserved across back-navigation so the form can be pre-filled, and are
// not re-validated until the next forward attempt.
type IntakeDraft struct {
	CustomerName   string       `json:"customerName"`
	PhoneRaw       string       `json:"phoneRaw"`
	CompanyName    string       `json:"companyName"`
	BusinessType   BusinessType `json:"businessType"`
	Industry       Industry     `json:"industry"`
	TenureBucket   TenureBucket `json:"tenureBucket"`
	MonthlyRevenue string       `json:"monthlyRevenue"`
	TaxStatus      TaxStatus    `json:"taxStatus"`
}

// ApplicantProfile is the validated, normalized step-1 output. It is
// immutable once the wizard advances to step 2 and lives only for the
// session's lifetime.
type ApplicantProfile struct {
	CustomerName         string       `json:"customerName"`
	PhoneDigits          string       `json:"phoneDigits"`
	PhoneFormatted       string       `json:"phoneFormatted"`
	CompanyName          string       `json:"companyName"`
	BusinessType         BusinessType `json:"businessType"`
	Industry             Industry     `json:"industry"`
	TenureBucket         TenureBucket `json:"tenureBucket"`
	TenureMonths         int          `json:"tenureMonths"`
	MonthlyRevenueRaw    string       `json:"monthlyRevenueRaw"`
	MonthlyRevenueManwon int          `json:"monthlyRevenueManwon"`
	TaxStatus            TaxStatus    `json:"taxStatus"`
}

// IsComplete reports whether the profile is eligible to grade: the name is
// present and the phone survived validation.
func (p *ApplicantProfile) IsComplete() bool {
	if p == nil {
		return false
	}
	if p.CustomerName == "" {
		return false
	}
	return len(p.PhoneDigits) == 10 || len(p.PhoneDigits) == 11
}
