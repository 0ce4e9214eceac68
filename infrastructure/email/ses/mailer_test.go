package ses

import (
	"context"
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vector-pai/application/ports"
	"vector-pai/pkg/errors"
)

type fakeSES struct {
	input *sesv2.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("0100-abc")}, nil
}

func TestMailer(t *testing.T) {
	email := ports.Email{
		From:     "vectordigital@vector.com.mx",
		To:       []string{"a@b.com", "c@d.com"},
		Subject:  "Aviso",
		HTMLBody: "<p>Hola</p>",
	}

	t.Run("Should send a UTF-8 HTML message", func(t *testing.T) {
		client := &fakeSES{}
		m := NewMailer(client, zap.NewNop())

		id, err := m.Send(context.Background(), email)

		require.NoError(t, err)
		assert.Equal(t, "0100-abc", id)
		assert.Equal(t, "vectordigital@vector.com.mx", aws.ToString(client.input.FromEmailAddress))
		assert.Equal(t, email.To, client.input.Destination.ToAddresses)
		msg := client.input.Content.Simple
		assert.Equal(t, "Aviso", aws.ToString(msg.Subject.Data))
		assert.Equal(t, "UTF-8", aws.ToString(msg.Subject.Charset))
		assert.Equal(t, "<p>Hola</p>", aws.ToString(msg.Body.Html.Data))
		assert.Equal(t, "UTF-8", aws.ToString(msg.Body.Html.Charset))
	})

	t.Run("Should report SES failures as external errors", func(t *testing.T) {
		m := NewMailer(&fakeSES{err: stderrors.New("MessageRejected")}, zap.NewNop())

		_, err := m.Send(context.Background(), email)

		require.Error(t, err)
		assert.Equal(t, http.StatusBadGateway, errors.GetAppError(err).HTTPStatus)
	})
}
