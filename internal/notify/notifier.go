// internal/notify/notifier.go

// Package notify sends best-effort completion notifications when an
// application reaches the end of the intake flow.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"insurance-intake/internal/common/config"
	apperrors "insurance-intake/internal/common/errors"
	"insurance-intake/internal/common/logger"
	"insurance-intake/internal/models"
)

// Define interfaces for mocking
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type Notifier struct {
	config    config.NotificationConfig
	sesClient SESService
	snsClient SNSService
	logger    logger.Logger
}

func New(ctx context.Context, cfg config.NotificationConfig, log logger.Logger) (*Notifier, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return &Notifier{
		config:    cfg,
		sesClient: ses.NewFromConfig(awsCfg),
		snsClient: sns.NewFromConfig(awsCfg),
		logger:    log.WithFields(map[string]interface{}{"component": "notify"}),
	}, nil
}

// IntakeCompleted emails the applicant a summary and publishes an
// internal SNS notification, per channel toggles. Channel failures are
// collected, not short-circuited, so one bad channel never blocks the
// other.
func (n *Notifier) IntakeCompleted(ctx context.Context, conv *models.Conversation) error {
	var firstErr error

	if n.config.Email.Enabled && conv.Email != nil {
		if err := n.sendEmail(ctx, *conv.Email, conv); err != nil {
			n.logger.Error("email send failed", map[string]interface{}{
				"error":          err,
				"conversationId": conv.ID,
			})
			firstErr = apperrors.NewNotificationSendFailed("email", err)
		}
	}

	if n.config.SMS.Enabled && n.config.SMS.TopicARN != "" {
		if err := n.publishSMS(ctx, conv); err != nil {
			n.logger.Error("SNS publish failed", map[string]interface{}{
				"error":          err,
				"conversationId": conv.ID,
			})
			if firstErr == nil {
				firstErr = apperrors.NewNotificationSendFailed("sns", err)
			}
		}
	}

	return firstErr
}

func (n *Notifier) sendEmail(ctx context.Context, to string, conv *models.Conversation) error {
	body := buildSummary(conv)
	_, err := n.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String("Your insurance application is complete")},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(n.config.Email.FromEmail),
	})
	return err
}

func (n *Notifier) publishSMS(ctx context.Context, conv *models.Conversation) error {
	message := fmt.Sprintf("Intake complete: conversation %s, %d vehicle(s)", conv.ID, len(conv.Vehicles))
	_, err := n.snsClient.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.config.SMS.TopicARN),
		Message:  aws.String(message),
	})
	return err
}

func buildSummary(conv *models.Conversation) string {
	var b strings.Builder
	b.WriteString("Thank you for completing your insurance application.\n\n")

	if conv.FullName != nil {
		fmt.Fprintf(&b, "Name: %s\n", *conv.FullName)
	}
	if conv.ZipCode != nil {
		fmt.Fprintf(&b, "ZIP code: %s\n", *conv.ZipCode)
	}
	if conv.LicenseType != nil {
		fmt.Fprintf(&b, "License type: %s\n", *conv.LicenseType)
	}
	if conv.LicenseStatus != nil {
		fmt.Fprintf(&b, "License status: %s\n", *conv.LicenseStatus)
	}

	fmt.Fprintf(&b, "\nVehicles (%d):\n", len(conv.Vehicles))
	for i, veh := range conv.Vehicles {
		fmt.Fprintf(&b, "  %d.", i+1)
		if veh.Year != nil {
			fmt.Fprintf(&b, " %d", *veh.Year)
		}
		if veh.Make != nil {
			fmt.Fprintf(&b, " %s", *veh.Make)
		}
		if veh.BodyType != nil {
			fmt.Fprintf(&b, " %s", *veh.BodyType)
		}
		if veh.VIN != nil {
			fmt.Fprintf(&b, " (VIN %s)", *veh.VIN)
		}
		b.WriteString("\n")
	}

	b.WriteString("\nWe'll be in touch with your quote shortly.")
	return b.String()
}
