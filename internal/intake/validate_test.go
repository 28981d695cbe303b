// internal/intake/validate_test.go
package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "policyfund-intake/internal/common/errors"
	"policyfund-intake/internal/models"
)

func createValidDraft() models.IntakeDraft {
	return models.IntakeDraft{
		CustomerName:   "김민수",
		PhoneRaw:       "010-1234-5678",
		CompanyName:    "민수식당",
		BusinessType:   models.BusinessTypeIndividual,
		Industry:       models.IndustryFoodService,
		TenureBucket:   models.TenureOneToThree,
		MonthlyRevenue: "3,000만원",
		TaxStatus:      models.TaxStatusCurrent,
	}
}

func TestValidate_Success(t *testing.T) {
	profile, errs := Validate(createValidDraft())

	require.Empty(t, errs)
	require.NotNil(t, profile)

	assert.Equal(t, "김민수", profile.CustomerName)
	assert.Equal(t, "01012345678", profile.PhoneDigits)
	assert.Equal(t, "010-1234-5678", profile.PhoneFormatted)
	assert.Equal(t, "민수식당", profile.CompanyName)
	assert.Equal(t, models.BusinessTypeIndividual, profile.BusinessType)
	assert.Equal(t, models.IndustryFoodService, profile.Industry)
	assert.Equal(t, models.TenureOneToThree, profile.TenureBucket)
	assert.Equal(t, 24, profile.TenureMonths)
	assert.Equal(t, 3000, profile.MonthlyRevenueManwon)
	assert.Equal(t, models.TaxStatusCurrent, profile.TaxStatus)
	assert.True(t, profile.IsComplete())
}

func TestValidate_AllFailuresReportedTogether(t *testing.T) {
	draft := models.IntakeDraft{
		CustomerName:   "   ",
		PhoneRaw:       "1234",
		MonthlyRevenue: "많이요",
	}

	profile, errs := Validate(draft)

	require.Nil(t, profile)
	require.Len(t, errs, 3)

	codes := make([]string, 0, len(errs))
	for _, e := range errs {
		codes = append(codes, e.Code)
	}
	assert.Contains(t, codes, string(stderrors.ErrCodeMissingName))
	assert.Contains(t, codes, string(stderrors.ErrCodeInvalidPhone))
	assert.Contains(t, codes, string(stderrors.ErrCodeNonNumericRevenue))
}

func TestValidate_DetailCarriesRejectedInput(t *testing.T) {
	draft := createValidDraft()
	draft.PhoneRaw = "02-123-4567"
	draft.MonthlyRevenue = "삼천"

	profile, errs := Validate(draft)

	require.Nil(t, profile)
	require.Len(t, errs, 2)
	assert.Equal(t, "input: 02-123-4567", errs[0].Detail)
	assert.Equal(t, "input: 삼천", errs[1].Detail)
}

func TestValidate_FieldMessages(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(d *models.IntakeDraft)
		field   string
		message string
	}{
		{
			name:    "missing name",
			mutate:  func(d *models.IntakeDraft) { d.CustomerName = "" },
			field:   "customerName",
			message: "성함을 입력해주세요.",
		},
		{
			name:    "landline phone",
			mutate:  func(d *models.IntakeDraft) { d.PhoneRaw = "02-123-4567" },
			field:   "phoneRaw",
			message: "전화번호를 확인해주세요. (예: 01012341234)",
		},
		{
			name:    "non numeric revenue",
			mutate:  func(d *models.IntakeDraft) { d.MonthlyRevenue = "삼천" },
			field:   "monthlyRevenue",
			message: "평균월매출은 숫자만 입력해주세요. (예: 3000)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := createValidDraft()
			tt.mutate(&draft)

			profile, errs := Validate(draft)

			require.Nil(t, profile)
			require.Len(t, errs, 1)
			assert.Equal(t, tt.field, errs[0].Field)
			assert.Equal(t, tt.message, errs[0].Message)
		})
	}
}

func TestValidate_EmptyRevenueIsAccepted(t *testing.T) {
	draft := createValidDraft()
	draft.MonthlyRevenue = ""

	profile, errs := Validate(draft)

	require.Empty(t, errs)
	assert.Equal(t, 0, profile.MonthlyRevenueManwon)
}

func TestValidate_UnsetSelectorsDefault(t *testing.T) {
	draft := models.IntakeDraft{
		CustomerName: "박지영",
		PhoneRaw:     "01698765432",
	}

	profile, errs := Validate(draft)

	require.Empty(t, errs)
	assert.Equal(t, models.BusinessTypeUnset, profile.BusinessType)
	assert.Equal(t, models.IndustryUnset, profile.Industry)
	assert.Equal(t, models.TenureUnderOneYear, profile.TenureBucket)
	assert.Equal(t, 6, profile.TenureMonths)
	assert.Equal(t, models.TaxStatusCurrent, profile.TaxStatus)
}
