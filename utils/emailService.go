package utils

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	log "github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

var (
	ErrMailDisabled      = errors.New("email sending is disabled for this organization")
	ErrMailNotConfigured = errors.New("mail delivery settings are incomplete")
)

// MailSettings are the per-organization delivery settings
type MailSettings struct {
	Enabled   bool
	Host      string
	Port      int
	User      string
	Password  string
	FromName  string
	FromEmail string
}

// Check reports whether mail can be sent with these settings
func (s MailSettings) Check() error {
	if !s.Enabled {
		return ErrMailDisabled
	}
	if s.User == "" || s.Password == "" {
		return ErrMailNotConfigured
	}
	return nil
}

// Address is where test messages go: the SMTP user, or the sender address when there is none
func (s MailSettings) Address() string {
	if s.User != "" {
		return s.User
	}
	return s.FromEmail
}

func (s MailSettings) sender() (name, email string) {
	email = s.FromEmail
	if email == "" {
		email = s.User
	}
	return s.FromName, email
}

type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

type Message struct {
	To          string
	ToName      string
	Subject     string
	HTML        string
	Attachments []Attachment
}

// Mailer delivers a message using the organization's settings.
// Validate reports whether the settings are complete enough for this transport.
type Mailer interface {
	Validate(settings MailSettings) error
	Send(ctx context.Context, settings MailSettings, msg Message) error
}

// NewMailer picks the transport named by provider ("smtp" or "sendgrid")
func NewMailer(provider, sendGridAPIKey string) Mailer {
	if strings.EqualFold(provider, "sendgrid") && sendGridAPIKey != "" {
		return &SendGridMailer{APIKey: sendGridAPIKey}
	}
	return &SMTPMailer{}
}

// SMTPMailer sends through the organization's SMTP server with STARTTLS
type SMTPMailer struct{}

func (m *SMTPMailer) Validate(settings MailSettings) error {
	return settings.Check()
}

func (m *SMTPMailer) Send(ctx context.Context, settings MailSettings, msg Message) error {
	if err := m.Validate(settings); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	fromName, fromEmail := settings.sender()
	gm := gomail.NewMessage()
	gm.SetAddressHeader("From", fromEmail, fromName)
	if msg.ToName != "" {
		gm.SetAddressHeader("To", msg.To, msg.ToName)
	} else {
		gm.SetHeader("To", msg.To)
	}
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/html", msg.HTML)
	for _, a := range msg.Attachments {
		data := a.Data
		gm.Attach(a.Filename,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {a.ContentType}}),
		)
	}

	port := settings.Port
	if port == 0 {
		port = 587
	}
	dialer := gomail.NewDialer(settings.Host, port, settings.User, settings.Password)
	if err := dialer.DialAndSend(gm); err != nil {
		log.WithError(err).WithField("to", msg.To).Error("[MAILER] smtp delivery failed")
		return errors.Wrap(err, "smtp send")
	}
	log.WithField("to", msg.To).Info("[MAILER] email sent")
	return nil
}

// SendGridMailer sends through the SendGrid API; only the sender fields of the settings are used
type SendGridMailer struct {
	APIKey string
}

// Validate needs email enabled and a sender address; SMTP credentials are not used
func (m *SendGridMailer) Validate(settings MailSettings) error {
	if !settings.Enabled {
		return ErrMailDisabled
	}
	if _, fromEmail := settings.sender(); fromEmail == "" {
		return ErrMailNotConfigured
	}
	return nil
}

func (m *SendGridMailer) Send(ctx context.Context, settings MailSettings, msg Message) error {
	if err := m.Validate(settings); err != nil {
		return err
	}

	fromName, fromEmail := settings.sender()
	message := mail.NewV3Mail()
	message.SetFrom(mail.NewEmail(fromName, fromEmail))
	message.Subject = msg.Subject
	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail(msg.ToName, msg.To))
	message.AddPersonalizations(p)
	message.AddContent(mail.NewContent("text/html", msg.HTML))
	for _, a := range msg.Attachments {
		att := mail.NewAttachment()
		att.SetContent(base64.StdEncoding.EncodeToString(a.Data))
		att.SetType(a.ContentType)
		att.SetFilename(a.Filename)
		att.SetDisposition("attachment")
		message.AddAttachment(att)
	}

	resp, err := sendgrid.NewSendClient(m.APIKey).SendWithContext(ctx, message)
	if err != nil {
		log.WithError(err).WithField("to", msg.To).Error("[MAILER] sendgrid delivery failed")
		return errors.Wrap(err, "sendgrid send")
	}
	if resp.StatusCode >= 300 {
		return errors.Errorf("sendgrid send: status %d: %s", resp.StatusCode, resp.Body)
	}
	log.WithField("to", msg.To).Info("[MAILER] email sent")
	return nil
}

// DiplomaAttachmentName is the file name used for the PDF attached to diploma emails
func DiplomaAttachmentName(certificateID string) string {
	return fmt.Sprintf("certificado_%s.pdf", certificateID)
}
