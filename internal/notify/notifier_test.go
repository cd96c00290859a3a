// internal/notify/notifier_test.go
package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insurance-intake/internal/common/config"
	apperrors "insurance-intake/internal/common/errors"
	"insurance-intake/internal/common/logger"
	"insurance-intake/internal/models"
)

// ==========================
// Mock Implementations
// ==========================

type MockSESService struct {
	SendEmailFunc func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

func (m *MockSESService) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	return m.SendEmailFunc(ctx, params, optFns...)
}

type MockSNSService struct {
	PublishFunc func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

func (m *MockSNSService) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	return m.PublishFunc(ctx, params, optFns...)
}

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() config.NotificationConfig {
	var cfg config.NotificationConfig
	cfg.Email.Enabled = true
	cfg.Email.FromEmail = "noreply@intake.example.com"
	cfg.SMS.Enabled = true
	cfg.SMS.TopicARN = "arn:aws:sns:us-east-1:000000000000:intake-complete"
	cfg.AWS.Region = "us-east-1"
	return cfg
}

func createTestConversation() *models.Conversation {
	zip := "90210"
	name := "Jane Smith"
	email := "jane@example.com"
	licenseType := models.LicensePersonal
	licenseStatus := models.LicenseValid
	vin := "1HGCM82633A004352"
	year := 2018
	makeName := "Honda"
	body := "Sedan"
	return &models.Conversation{
		ID:            "conv-42",
		ZipCode:       &zip,
		FullName:      &name,
		Email:         &email,
		LicenseType:   &licenseType,
		LicenseStatus: &licenseStatus,
		CurrentState:  models.StateComplete,
		Vehicles: []*models.Vehicle{
			{ID: "veh-1", ConversationID: "conv-42", Position: 1, VIN: &vin, Year: &year, Make: &makeName, BodyType: &body},
		},
	}
}

func newTestNotifier(t *testing.T, cfg config.NotificationConfig, sesClient SESService, snsClient SNSService) *Notifier {
	return &Notifier{
		config:    cfg,
		sesClient: sesClient,
		snsClient: snsClient,
		logger:    logger.NewTestLogger(t),
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestIntakeCompleted_SendsEmailAndSNS(t *testing.T) {
	conv := createTestConversation()

	emailSent := false
	mockSES := &MockSESService{
		SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			emailSent = true
			assert.Equal(t, []string{"jane@example.com"}, params.Destination.ToAddresses)
			assert.Equal(t, "noreply@intake.example.com", *params.Source)
			assert.Equal(t, "Your insurance application is complete", *params.Message.Subject.Data)
			body := *params.Message.Body.Text.Data
			assert.Contains(t, body, "Name: Jane Smith")
			assert.Contains(t, body, "ZIP code: 90210")
			assert.Contains(t, body, "2018 Honda Sedan (VIN 1HGCM82633A004352)")
			return &ses.SendEmailOutput{}, nil
		},
	}

	published := false
	mockSNS := &MockSNSService{
		PublishFunc: func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
			published = true
			assert.Equal(t, "arn:aws:sns:us-east-1:000000000000:intake-complete", *params.TopicArn)
			assert.Equal(t, "Intake complete: conversation conv-42, 1 vehicle(s)", *params.Message)
			return &sns.PublishOutput{}, nil
		},
	}

	notifier := newTestNotifier(t, createTestConfig(), mockSES, mockSNS)

	err := notifier.IntakeCompleted(context.Background(), conv)

	require.NoError(t, err)
	assert.True(t, emailSent)
	assert.True(t, published)
}

func TestIntakeCompleted_ChannelToggles(t *testing.T) {
	tests := []struct {
		name         string
		emailEnabled bool
		smsEnabled   bool
		email        *string
		wantEmail    bool
		wantPublish  bool
	}{
		{
			name:         "email only",
			emailEnabled: true,
			email:        strPtr("jane@example.com"),
			wantEmail:    true,
		},
		{
			name:        "SNS only",
			smsEnabled:  true,
			email:       strPtr("jane@example.com"),
			wantPublish: true,
		},
		{
			name: "both disabled",
		},
		{
			name:         "email enabled but applicant has no email",
			emailEnabled: true,
			smsEnabled:   true,
			email:        nil,
			wantPublish:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emailSent := false
			mockSES := &MockSESService{
				SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
					emailSent = true
					return &ses.SendEmailOutput{}, nil
				},
			}
			published := false
			mockSNS := &MockSNSService{
				PublishFunc: func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
					published = true
					return &sns.PublishOutput{}, nil
				},
			}

			cfg := createTestConfig()
			cfg.Email.Enabled = tt.emailEnabled
			cfg.SMS.Enabled = tt.smsEnabled

			conv := createTestConversation()
			conv.Email = tt.email

			notifier := newTestNotifier(t, cfg, mockSES, mockSNS)

			err := notifier.IntakeCompleted(context.Background(), conv)

			assert.NoError(t, err)
			assert.Equal(t, tt.wantEmail, emailSent)
			assert.Equal(t, tt.wantPublish, published)
		})
	}
}

func TestIntakeCompleted_EmailFailureStillPublishes(t *testing.T) {
	mockSES := &MockSESService{
		SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			return nil, errors.New("SES service unavailable")
		},
	}
	published := false
	mockSNS := &MockSNSService{
		PublishFunc: func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
			published = true
			return &sns.PublishOutput{}, nil
		},
	}

	notifier := newTestNotifier(t, createTestConfig(), mockSES, mockSNS)

	err := notifier.IntakeCompleted(context.Background(), createTestConversation())

	assert.True(t, published)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeNotificationSendFailed, apperrors.CodeOf(err))
	var stdErr *apperrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Contains(t, stdErr.Details, "channel: email")
}

func TestIntakeCompleted_SNSFailureReported(t *testing.T) {
	mockSES := &MockSESService{
		SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			return &ses.SendEmailOutput{}, nil
		},
	}
	mockSNS := &MockSNSService{
		PublishFunc: func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
			return nil, errors.New("SNS service unavailable")
		},
	}

	notifier := newTestNotifier(t, createTestConfig(), mockSES, mockSNS)

	err := notifier.IntakeCompleted(context.Background(), createTestConversation())

	require.Error(t, err)
	var stdErr *apperrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Contains(t, stdErr.Details, "channel: sns")
}

func TestIntakeCompleted_EmailFailureWinsOverSNSFailure(t *testing.T) {
	mockSES := &MockSESService{
		SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			return nil, errors.New("SES service unavailable")
		},
	}
	mockSNS := &MockSNSService{
		PublishFunc: func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
			return nil, errors.New("SNS service unavailable")
		},
	}

	notifier := newTestNotifier(t, createTestConfig(), mockSES, mockSNS)

	err := notifier.IntakeCompleted(context.Background(), createTestConversation())

	require.Error(t, err)
	var stdErr *apperrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Contains(t, stdErr.Details, "channel: email")
}

// ==========================
// Unit Tests
// ==========================

func TestBuildSummary(t *testing.T) {
	t.Run("full record", func(t *testing.T) {
		summary := buildSummary(createTestConversation())

		assert.Contains(t, summary, "Thank you for completing your insurance application.")
		assert.Contains(t, summary, "Name: Jane Smith")
		assert.Contains(t, summary, "ZIP code: 90210")
		assert.Contains(t, summary, "License type: personal")
		assert.Contains(t, summary, "License status: valid")
		assert.Contains(t, summary, "Vehicles (1):")
		assert.Contains(t, summary, "  1. 2018 Honda Sedan (VIN 1HGCM82633A004352)")
		assert.Contains(t, summary, "We'll be in touch with your quote shortly.")
	})

	t.Run("sparse record omits missing fields", func(t *testing.T) {
		conv := &models.Conversation{
			ID:           "conv-sparse",
			CurrentState: models.StateComplete,
			Vehicles: []*models.Vehicle{
				{ID: "veh-1", ConversationID: "conv-sparse", Position: 1, Make: strPtr("Toyota")},
			},
		}

		summary := buildSummary(conv)

		assert.NotContains(t, summary, "Name:")
		assert.NotContains(t, summary, "ZIP code:")
		assert.NotContains(t, summary, "License")
		assert.Contains(t, summary, "Vehicles (1):")
		assert.Contains(t, summary, "  1. Toyota\n")
		assert.NotContains(t, summary, "VIN")
	})
}

func strPtr(s string) *string { return &s }
