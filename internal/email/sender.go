package email

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/mhaveles/airbnboptimizer/internal/config"
	"github.com/mhaveles/airbnboptimizer/internal/pkg/logger"
)

const descriptionSubject = "Your Listing, upgraded."

// sendEmailAPI is the slice of the SES client the sender uses.
type sendEmailAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// Sender delivers product emails through AWS SES.
type Sender struct {
	client sendEmailAPI
	from   string
}

// NewSender creates an SES sender, or nil when email delivery is
// disabled. Static credentials are used when provided; otherwise the
// default AWS credential chain applies.
func NewSender(ctx context.Context, cfg config.EmailConfig) (*Sender, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &Sender{
		client: sesv2.NewFromConfig(awsCfg),
		from:   cfg.From,
	}, nil
}

// NewSenderWithClient wires a prebuilt SES client, for tests.
func NewSenderWithClient(client sendEmailAPI, from string) *Sender {
	return &Sender{client: client, from: from}
}

// SendDescription delivers the premium description to the buyer. A nil
// Sender reports success without sending, so disabled environments flow
// through the pipeline unchanged.
func (s *Sender) SendDescription(ctx context.Context, to, description string) error {
	if s == nil {
		logger.Info("email delivery disabled, skipping send", "to", to)
		return nil
	}

	body, err := RenderDescriptionHTML(description)
	if err != nil {
		return err
	}

	out, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.from),
		Destination:      &types.Destination{ToAddresses: []string{to}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(descriptionSubject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(body), Charset: aws.String("UTF-8")},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("sending description email: %w", err)
	}

	messageID := ""
	if out.MessageId != nil {
		messageID = *out.MessageId
	}
	logger.Info("description email sent", "to", to, "message_id", messageID)
	return nil
}
