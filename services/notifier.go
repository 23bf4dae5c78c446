package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"easyhora-backend/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

const (
	ChannelSMS      = "sms"
	ChannelWhatsApp = "whatsapp"
)

// OutboundMessage is a text sent to a client phone.
type OutboundMessage struct {
	To      string
	Body    string
	Channel string
}

// Notifier delivers text messages. The returned id is the provider's message id.
type Notifier interface {
	Send(ctx context.Context, msg OutboundMessage) (string, error)
}

// ChooseChannel returns WhatsApp for international numbers when the salon
// has WhatsApp on, and SMS otherwise.
func ChooseChannel(phone string, whatsappEnabled bool) string {
	if whatsappEnabled && strings.HasPrefix(strings.TrimSpace(phone), "+") {
		return ChannelWhatsApp
	}
	return ChannelSMS
}

type TwilioConfig struct {
	AccountSID     string
	AuthToken      string
	PhoneNumber    string
	WhatsAppNumber string
}

// TwilioNotifier sends SMS and WhatsApp messages through the Twilio Messages API.
type TwilioNotifier struct {
	client         *twilio.RestClient
	phoneNumber    string
	whatsappNumber string
	log            *logger.Logger
}

// NewTwilioNotifier returns nil when credentials are missing.
func NewTwilioNotifier(cfg TwilioConfig, log *logger.Logger) *TwilioNotifier {
	if cfg.AccountSID == "" || cfg.AuthToken == "" {
		return nil
	}
	if log == nil {
		log = logger.Default()
	}
	return &TwilioNotifier{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.AccountSID,
			Password: cfg.AuthToken,
		}),
		phoneNumber:    cfg.PhoneNumber,
		whatsappNumber: cfg.WhatsAppNumber,
		log:            log.WithComponent("twilio"),
	}
}

func (n *TwilioNotifier) Send(ctx context.Context, msg OutboundMessage) (string, error) {
	if msg.To == "" {
		return "", errors.New("notifier: recipient required")
	}
	if strings.TrimSpace(msg.Body) == "" {
		return "", errors.New("notifier: body required")
	}

	_, span := tracer.Start(ctx, "notifier.twilio.send")
	defer span.End()

	params := &twilioApi.CreateMessageParams{}
	params.SetBody(msg.Body)
	if msg.Channel == ChannelWhatsApp {
		params.SetTo("whatsapp:" + msg.To)
		params.SetFrom("whatsapp:" + n.whatsappNumber)
	} else {
		params.SetTo(msg.To)
		params.SetFrom(n.phoneNumber)
	}

	resp, err := n.client.Api.CreateMessage(params)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("twilio create message: %w", err)
	}
	sid := ""
	if resp != nil && resp.Sid != nil {
		sid = *resp.Sid
	}
	n.log.Debugw("message sent", "channel", msg.Channel, "sid", sid)
	return sid, nil
}

// LogNotifier only logs. It stands in when no messaging provider is configured.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	if log == nil {
		log = logger.Default()
	}
	return &LogNotifier{log: log.WithComponent("notifier")}
}

func (n *LogNotifier) Send(_ context.Context, msg OutboundMessage) (string, error) {
	n.log.Infow("messaging disabled, message not sent", "channel", msg.Channel, "to", msg.To)
	return "", nil
}

// EmailMessage is a booking confirmation e-mail.
type EmailMessage struct {
	To      string
	ToName  string
	Subject string
	Body    string
}

type Mailer interface {
	SendEmail(ctx context.Context, msg EmailMessage) error
}

type SendGridConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

// SendGridMailer sends e-mail through the SendGrid v3 API.
type SendGridMailer struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	log       *logger.Logger
}

// NewSendGridMailer returns nil when no API key is set.
func NewSendGridMailer(cfg SendGridConfig, log *logger.Logger) *SendGridMailer {
	if cfg.APIKey == "" {
		return nil
	}
	if log == nil {
		log = logger.Default()
	}
	if cfg.FromName == "" {
		cfg.FromName = "EasyHora"
	}
	return &SendGridMailer{
		client:    sendgrid.NewSendClient(cfg.APIKey),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		log:       log.WithComponent("sendgrid"),
	}
}

func (m *SendGridMailer) SendEmail(ctx context.Context, msg EmailMessage) error {
	from := mail.NewEmail(m.fromName, m.fromEmail)
	to := mail.NewEmail(msg.ToName, msg.To)
	message := mail.NewSingleEmail(from, msg.Subject, to, msg.Body, msg.Body)

	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}
	m.log.Debugw("email sent", "status", resp.StatusCode)
	return nil
}
