// internal/notify/notifier.go
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"policyfund-intake/internal/common/config"
	stderrors "policyfund-intake/internal/common/errors"
	"policyfund-intake/internal/common/logger"
	"policyfund-intake/internal/models"
)

// Interfaces over the AWS clients so tests can mock them.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Notifier sends the applicant an SMS with their grade and the operator an
// email per submission. Both channels are best effort: every failure is
// logged and swallowed so a notification can never fail a submission.
type Notifier struct {
	cfg       config.NotificationConfig
	sesClient SESService
	snsClient SNSService
	logger    logger.Logger
}

// New builds a notifier from configuration and pre-built AWS clients.
// Either client may be nil when its channel is disabled.
func New(cfg config.NotificationConfig, sesClient SESService, snsClient SNSService, log logger.Logger) *Notifier {
	return &Notifier{
		cfg:       cfg,
		sesClient: sesClient,
		snsClient: snsClient,
		logger:    log,
	}
}

// NotifySubmission fans out to the enabled channels.
func (n *Notifier) NotifySubmission(ctx context.Context, record *models.SubmissionRecord) {
	if n.cfg.SMS.Enabled && n.snsClient != nil {
		if err := n.sendSMS(ctx, record); err != nil {
			n.logger.WithError(stderrors.NewNotificationSendFailedError("sms", err)).Error(
				"SMS send failed", map[string]interface{}{
					"submission_id": record.ID,
				})
		}
	}

	if n.cfg.Email.Enabled && n.sesClient != nil {
		if err := n.sendEmail(ctx, record); err != nil {
			n.logger.WithError(stderrors.NewNotificationSendFailedError("email", err)).Error(
				"Email send failed", map[string]interface{}{
					"submission_id": record.ID,
				})
		}
	}
}

func (n *Notifier) sendSMS(ctx context.Context, record *models.SubmissionRecord) error {
	message := fmt.Sprintf("[정책자금 사전진단] %s님, 진단 결과는 '%s'입니다. %s",
		record.CustomerName, record.Grade.Label(), record.Grade.Summary())

	_, err := n.snsClient.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(ToE164(record.PhoneFormatted, n.cfg.SMS.CountryCode)),
		Message:     aws.String(message),
	})
	return err
}

func (n *Notifier) sendEmail(ctx context.Context, record *models.SubmissionRecord) error {
	subject := fmt.Sprintf("[정책자금] 새 접수: %s (%s)", record.CustomerName, record.Grade.Label())

	var b strings.Builder
	fmt.Fprintf(&b, "접수시각: %s\n", record.SubmittedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "성함: %s\n", record.CustomerName)
	fmt.Fprintf(&b, "연락처: %s\n", record.PhoneFormatted)
	fmt.Fprintf(&b, "회사명: %s\n", record.CompanyName)
	fmt.Fprintf(&b, "사업자 유형: %s / 업종: %s\n", record.BusinessType, record.Industry)
	fmt.Fprintf(&b, "업력: %s (%d개월)\n", record.TenureBucket, record.TenureMonths)
	fmt.Fprintf(&b, "평균월매출: %d만원\n", record.MonthlyRevenueManwon)
	fmt.Fprintf(&b, "세금 상태: %s\n", record.TaxStatus)
	fmt.Fprintf(&b, "리스크 플래그: %s\n", models.RiskFlagLabel(record.RiskFlag))
	fmt.Fprintf(&b, "등급: %s\n%s\n", record.Grade.Label(), record.Grade.Summary())

	_, err := n.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{n.cfg.Email.ToEmail},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(b.String())},
			},
		},
		Source: aws.String(n.cfg.Email.FromEmail),
	})
	return err
}

// ToE164 converts a local number like 010-1234-5678 into +821012345678.
// Numbers that already carry a plus sign pass through unchanged.
func ToE164(phone, countryCode string) string {
	if strings.HasPrefix(phone, "+") {
		return phone
	}
	if countryCode == "" {
		countryCode = "+82"
	}

	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	local := strings.TrimPrefix(digits.String(), "0")
	return countryCode + local
}
