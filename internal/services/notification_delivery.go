package services

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/nconnect/society-backend/internal/utils"
)

// EmailSender and SMSSender are the outbound channels of notification
// fan-out.
type EmailSender interface {
	SendEmail(ctx context.Context, toName, toEmail, subject, plainText, htmlContent string) error
}

type SMSSender interface {
	SendSMS(ctx context.Context, toPhone, body string) error
}

type SendGridEmailSender struct {
	client    *sendgrid.Client
	fromName  string
	fromEmail string
	sandbox   bool
}

func NewSendGridEmailSender(apiKey, fromName, fromEmail string, sandbox bool) *SendGridEmailSender {
	return &SendGridEmailSender{
		client:    sendgrid.NewSendClient(apiKey),
		fromName:  fromName,
		fromEmail: fromEmail,
		sandbox:   sandbox,
	}
}

func (s *SendGridEmailSender) SendEmail(_ context.Context, toName, toEmail, subject, plainText, htmlContent string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainText, htmlContent)
	if s.sandbox {
		ms := mail.NewMailSettings()
		ms.SetSandboxMode(mail.NewSetting(true))
		message.MailSettings = ms
	}

	resp, err := s.client.Send(message)
	if err != nil {
		return fmt.Errorf("%w: failed to send email via sendgrid: %v", utils.ErrExternalServiceFailure, err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: sendgrid status %d: %s", utils.ErrExternalServiceFailure, resp.StatusCode, resp.Body)
	}
	return nil
}

type TwilioSMSSender struct {
	client    *twilio.RestClient
	fromPhone string
}

func NewTwilioSMSSender(accountSID, authToken, fromPhone string) *TwilioSMSSender {
	return &TwilioSMSSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		fromPhone: fromPhone,
	}
}

func (s *TwilioSMSSender) SendSMS(_ context.Context, toPhone, body string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(e164(toPhone))
	params.SetFrom(s.fromPhone)
	params.SetBody(body)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("%w: failed to send sms via twilio: %v", utils.ErrExternalServiceFailure, err)
	}
	return nil
}

// e164 turns a stored 10-digit Indian mobile number into +91XXXXXXXXXX.
func e164(phone string) string {
	if strings.HasPrefix(phone, "+") {
		return phone
	}
	return "+91" + phone
}

func notificationEmailHTML(title, message string) string {
	return fmt.Sprintf(`<html><body style="font-family:sans-serif">
<h2>%s</h2>
<p>%s</p>
<p style="color:#888;font-size:12px">%s society notification</p>
</body></html>`, html.EscapeString(title), strings.ReplaceAll(html.EscapeString(message), "\n", "<br>"), utils.OrganizationName)
}
