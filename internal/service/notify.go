package service

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Notifier delivers a best-effort text message. A false return means "not
// delivered, proceed anyway": delivery is never a precondition for a state
// transition.
type Notifier interface {
	Send(phoneNumber, message string) bool
}

// TwilioNotifier sends SMS through Twilio. Local-format numbers are
// normalized to the configured international prefix before sending.
type TwilioNotifier struct {
	client *twilio.RestClient
	from   string
	prefix string
}

func NewTwilioNotifier(fromNumber, countryPrefix string) *TwilioNotifier {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSid,
		Password: authToken,
	})
	return &TwilioNotifier{client: client, from: fromNumber, prefix: countryPrefix}
}

func (n *TwilioNotifier) Send(phoneNumber, message string) bool {
	if phoneNumber == "" {
		return false
	}
	to := NormalizePhone(phoneNumber, n.prefix)

	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(n.from)
	params.SetBody(message)

	resp, err := n.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("SMS to %s failed: %v", to, err)
		return false
	}
	if resp == nil || resp.Sid == nil {
		log.Printf("SMS to %s: no message SID in response", to)
		return false
	}
	return true
}

// NormalizePhone rewrites a local-format number to the given international
// prefix. A number that already carries an international prefix is returned
// unmodified, whatever country it belongs to.
func NormalizePhone(number, prefix string) string {
	number = strings.TrimSpace(number)
	switch {
	case number == "":
		return number
	case strings.HasPrefix(number, "+"):
		return number
	case strings.HasPrefix(number, "0"):
		return prefix + number[1:]
	default:
		return prefix + number
	}
}

var (
	errMissingSendgridKey  = errors.New("SENDGRID_API_KEY not set")
	errMissingSendgridFrom = errors.New("SENDGRID_FROM_EMAIL not set")
)

type sendgridError struct {
	status int
	body   string
}

func (e *sendgridError) Error() string {
	return fmt.Sprintf("sendgrid returned status %d: %s", e.status, e.body)
}

// SendEmailWithSendGrid delivers one transactional email. Failures are
// returned for the caller to log; email is as best-effort as SMS.
func SendEmailWithSendGrid(toEmail, toName, subject, plainTextContent, htmlContent string) error {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	if apiKey == "" {
		return errMissingSendgridKey
	}
	fromEmail := os.Getenv("SENDGRID_FROM_EMAIL")
	if fromEmail == "" {
		return errMissingSendgridFrom
	}
	fromName := os.Getenv("SENDGRID_FROM_NAME")
	if fromName == "" {
		fromName = "Car Show Rental"
	}

	from := mail.NewEmail(fromName, fromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainTextContent, htmlContent)

	client := sendgrid.NewSendClient(apiKey)
	response, err := client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return &sendgridError{status: response.StatusCode, body: response.Body}
	}
	return nil
}
