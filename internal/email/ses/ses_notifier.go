package ses

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"loanlens/internal/config"
	"loanlens/internal/email"
	"loanlens/internal/port"
)

// Notifier sends decision notices through Amazon SES.
type Notifier struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
}

var _ port.DecisionNotifier = (*Notifier)(nil)

// NewNotifier loads the default AWS credential chain for cfg.Region.
func NewNotifier(ctx context.Context, cfg *config.EmailConfig) (*Notifier, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return NewNotifierWithClient(sesv2.NewFromConfig(awsCfg), cfg), nil
}

// NewNotifierWithClient wraps an existing SES client.
func NewNotifierWithClient(client *sesv2.Client, cfg *config.EmailConfig) *Notifier {
	return &Notifier{client: client, fromAddress: cfg.FromAddress, fromName: cfg.FromName}
}

func (n *Notifier) NotifyDecision(ctx context.Context, notice port.DecisionNotice) error {
	subject, htmlBody, textBody, err := email.RenderDecision(notice)
	if err != nil {
		return err
	}
	from := fmt.Sprintf("%s <%s>", n.fromName, n.fromAddress)

	_, err = n.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination: &types.Destination{
			ToAddresses: []string{notice.ToEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(htmlBody)},
					Text: &types.Content{Data: aws.String(textBody)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}
