// Package ses sends email through Amazon SES v2.
package ses

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"go.uber.org/zap"

	"vector-pai/application/ports"
	"vector-pai/pkg/errors"
)

const charsetUTF8 = "UTF-8"

// Client is the subset of the SES v2 API used by the mailer
type Client interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// Mailer implements ports.Mailer on SES v2
type Mailer struct {
	client Client
	logger *zap.Logger
}

var _ ports.Mailer = (*Mailer)(nil)

// NewMailer creates a new SES mailer
func NewMailer(client Client, logger *zap.Logger) *Mailer {
	return &Mailer{client: client, logger: logger}
}

// Send delivers a simple HTML message and returns the SES message id
func (m *Mailer) Send(ctx context.Context, email ports.Email) (string, error) {
	out, err := m.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(email.From),
		Destination:      &types.Destination{ToAddresses: email.To},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(email.Subject), Charset: aws.String(charsetUTF8)},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(email.HTMLBody), Charset: aws.String(charsetUTF8)},
				},
			},
		},
	})
	if err != nil {
		return "", errors.NewExternalError("ses", err)
	}

	id := aws.ToString(out.MessageId)
	m.logger.Debug("SES accepted message", zap.String("message_id", id))
	return id, nil
}
