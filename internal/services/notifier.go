package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	pkglogger "github.com/BradenHooton/tourexpress/pkg/logger"
)

// Notifier delivers elevation codes to account holders.
type Notifier interface {
	SendConfirmationCode(ctx context.Context, to, username, code string) error
	SendAdminCode(ctx context.Context, to, username, code string) error
}

// SESClient is the subset of the SES API used for delivery.
type SESClient interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESNotifier sends plain-text mail through AWS SES.
type SESNotifier struct {
	client      SESClient
	fromAddress string
	logger      *slog.Logger
}

// NewSESNotifier loads the default AWS credential chain for region.
func NewSESNotifier(ctx context.Context, region, fromAddress string, logger *slog.Logger) (*SESNotifier, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewSESNotifierWithClient(ses.NewFromConfig(cfg), fromAddress, logger), nil
}

func NewSESNotifierWithClient(client SESClient, fromAddress string, logger *slog.Logger) *SESNotifier {
	return &SESNotifier{client: client, fromAddress: fromAddress, logger: logger}
}

func (n *SESNotifier) SendConfirmationCode(ctx context.Context, to, username, code string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour confirmation code is: %s\n\nKeep it somewhere safe.\n", username, code)
	return n.send(ctx, to, "Confirmation code - TourExpress", body)
}

func (n *SESNotifier) SendAdminCode(ctx context.Context, to, username, code string) error {
	body := fmt.Sprintf("Hello %s, your administrator code is: %s\n", username, code)
	return n.send(ctx, to, "Your administrator code", body)
}

func (n *SESNotifier) send(ctx context.Context, to, subject, body string) error {
	input := &ses.SendEmailInput{
		Source: aws.String(n.fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data:    aws.String(body),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	}

	out, err := n.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email via SES: %w", err)
	}

	n.logger.Info("email sent",
		slog.String("to", pkglogger.SanitizedEmail(to)),
		slog.String("message_id", aws.ToString(out.MessageId)),
	)
	return nil
}

// LogNotifier writes codes to the log instead of sending mail. The code
// itself is only visible outside production.
type LogNotifier struct {
	logger *slog.Logger
	env    string
}

func NewLogNotifier(logger *slog.Logger, env string) *LogNotifier {
	return &LogNotifier{logger: logger, env: env}
}

func (n *LogNotifier) SendConfirmationCode(ctx context.Context, to, username, code string) error {
	n.log(ctx, "confirmation code issued", to, username, code)
	return nil
}

func (n *LogNotifier) SendAdminCode(ctx context.Context, to, username, code string) error {
	n.log(ctx, "admin code issued", to, username, code)
	return nil
}

func (n *LogNotifier) log(ctx context.Context, msg, to, username, code string) {
	n.logger.LogAttrs(ctx, slog.LevelInfo, msg,
		slog.String("to", pkglogger.SanitizedEmail(to)),
		slog.String("username", username),
		pkglogger.RedactedAttr("code", code, n.env),
	)
}
