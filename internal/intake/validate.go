// internal/intake/validate.go
package intake

import (
	"strings"

	stderrors "policyfund-intake/internal/common/errors"
	"policyfund-intake/internal/models"
)

// ValidationError describes a single rejected intake field. Message is the
// form-facing Korean text; Detail carries the operator-facing context from
// the error taxonomy.
type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func newValidationError(field, message string, stdErr *stderrors.StandardError) ValidationError {
	return ValidationError{
		Field:   field,
		Code:    string(stdErr.Code),
		Message: message,
		Detail:  stdErr.Details,
	}
}

// Validate runs the advance-to-step-2 gate over a raw draft. On success it
// returns the normalized, immutable ApplicantProfile; on failure it returns
// every failed field so the form can surface all messages at once.
func Validate(draft models.IntakeDraft) (*models.ApplicantProfile, []ValidationError) {
	var errs []ValidationError

	name := strings.TrimSpace(draft.CustomerName)
	if name == "" {
		errs = append(errs, newValidationError("customerName",
			"성함을 입력해주세요.", stderrors.NewMissingNameError()))
	}

	if !IsValidPhone(draft.PhoneRaw) {
		errs = append(errs, newValidationError("phoneRaw",
			"전화번호를 확인해주세요. (예: 01012341234)", stderrors.NewInvalidPhoneError(draft.PhoneRaw)))
	}

	revenueRaw := strings.TrimSpace(draft.MonthlyRevenue)
	if revenueRaw != "" && OnlyDigits(revenueRaw) == "" && ParseRevenue(revenueRaw) == 0 {
		errs = append(errs, newValidationError("monthlyRevenue",
			"평균월매출은 숫자만 입력해주세요. (예: 3000)", stderrors.NewNonNumericRevenueError(revenueRaw)))
	}

	if len(errs) > 0 {
		return nil, errs
	}

	phoneDigits := OnlyDigits(draft.PhoneRaw)

	profile := &models.ApplicantProfile{
		CustomerName:         name,
		PhoneDigits:          phoneDigits,
		PhoneFormatted:       FormatPhone(phoneDigits),
		CompanyName:          strings.TrimSpace(draft.CompanyName),
		BusinessType:         defaultBusinessType(draft.BusinessType),
		Industry:             defaultIndustry(draft.Industry),
		TenureBucket:         defaultTenure(draft.TenureBucket),
		MonthlyRevenueRaw:    revenueRaw,
		MonthlyRevenueManwon: ParseRevenue(revenueRaw),
		TaxStatus:            defaultTaxStatus(draft.TaxStatus),
	}
	profile.TenureMonths = TenureToMonths(profile.TenureBucket)

	return profile, nil
}

func defaultBusinessType(t models.BusinessType) models.BusinessType {
	switch t {
	case models.BusinessTypeIndividual, models.BusinessTypeCorporation:
		return t
	default:
		return models.BusinessTypeUnset
	}
}

func defaultIndustry(i models.Industry) models.Industry {
	switch i {
	case models.IndustryFoodService, models.IndustryManufacturing,
		models.IndustryWholesale, models.IndustryServices, models.IndustryOther:
		return i
	default:
		return models.IndustryUnset
	}
}

func defaultTenure(b models.TenureBucket) models.TenureBucket {
	switch b {
	case models.TenureOneToThree, models.TenureThreePlus:
		return b
	default:
		return models.TenureUnderOneYear
	}
}

func defaultTaxStatus(s models.TaxStatus) models.TaxStatus {
	if s == models.TaxStatusDelinquent {
		return models.TaxStatusDelinquent
	}
	return models.TaxStatusCurrent
}
