// internal/notify/notifier_test.go
package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policyfund-intake/internal/common/config"
	"policyfund-intake/internal/common/logger"
	"policyfund-intake/internal/models"
)

type mockSES struct {
	inputs []*ses.SendEmailInput
	err    error
}

func (m *mockSES) SendEmail(_ context.Context, input *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.inputs = append(m.inputs, input)
	return &ses.SendEmailOutput{}, nil
}

type mockSNS struct {
	inputs []*sns.PublishInput
	err    error
}

func (m *mockSNS) Publish(_ context.Context, input *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.inputs = append(m.inputs, input)
	return &sns.PublishOutput{}, nil
}

func testConfig() config.NotificationConfig {
	cfg := config.NotificationConfig{}
	cfg.SMS.Enabled = true
	cfg.SMS.CountryCode = "+82"
	cfg.Email.Enabled = true
	cfg.Email.FromEmail = "no-reply@example.com"
	cfg.Email.ToEmail = "ops@example.com"
	return cfg
}

func testRecord() *models.SubmissionRecord {
	profile := &models.ApplicantProfile{
		CustomerName:         "김민수",
		PhoneDigits:          "01012345678",
		PhoneFormatted:       "010-1234-5678",
		CompanyName:          "민수식당",
		BusinessType:         models.BusinessTypeIndividual,
		Industry:             models.IndustryFoodService,
		TenureBucket:         models.TenureOneToThree,
		TenureMonths:         24,
		MonthlyRevenueManwon: 3000,
		TaxStatus:            models.TaxStatusCurrent,
	}
	return models.NewSubmissionRecord("sub-1", time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC), profile, false, models.GradeA)
}

func TestNotifier_BothChannels(t *testing.T) {
	sesMock := &mockSES{}
	snsMock := &mockSNS{}
	n := New(testConfig(), sesMock, snsMock, logger.NewTestLogger(t))

	n.NotifySubmission(context.Background(), testRecord())

	require.Len(t, snsMock.inputs, 1)
	assert.Equal(t, "+821012345678", *snsMock.inputs[0].PhoneNumber)
	assert.Contains(t, *snsMock.inputs[0].Message, "김민수")
	assert.Contains(t, *snsMock.inputs[0].Message, "A 적합")

	require.Len(t, sesMock.inputs, 1)
	assert.Equal(t, "no-reply@example.com", *sesMock.inputs[0].Source)
	assert.Equal(t, []string{"ops@example.com"}, sesMock.inputs[0].Destination.ToAddresses)
	assert.Contains(t, *sesMock.inputs[0].Message.Subject.Data, "김민수")
	assert.Contains(t, *sesMock.inputs[0].Message.Body.Text.Data, "010-1234-5678")
}

func TestNotifier_DisabledChannelsSkipped(t *testing.T) {
	cfg := testConfig()
	cfg.SMS.Enabled = false

	sesMock := &mockSES{}
	snsMock := &mockSNS{}
	n := New(cfg, sesMock, snsMock, logger.NewTestLogger(t))

	n.NotifySubmission(context.Background(), testRecord())

	assert.Empty(t, snsMock.inputs)
	assert.Len(t, sesMock.inputs, 1)
}

// A channel failure is logged, never panics or blocks the other channel.
func TestNotifier_FailuresAreSwallowed(t *testing.T) {
	sesMock := &mockSES{}
	snsMock := &mockSNS{err: errors.New("throttled")}
	n := New(testConfig(), sesMock, snsMock, logger.NewTestLogger(t))

	assert.NotPanics(t, func() {
		n.NotifySubmission(context.Background(), testRecord())
	})
	assert.Len(t, sesMock.inputs, 1)
}

func TestToE164(t *testing.T) {
	tests := []struct {
		name     string
		phone    string
		country  string
		expected string
	}{
		{name: "formatted local number", phone: "010-1234-5678", country: "+82", expected: "+821012345678"},
		{name: "bare digits", phone: "01012345678", country: "+82", expected: "+821012345678"},
		{name: "already e164", phone: "+821012345678", country: "+82", expected: "+821012345678"},
		{name: "empty country defaults korea", phone: "01012345678", country: "", expected: "+821012345678"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToE164(tt.phone, tt.country))
		})
	}
}
