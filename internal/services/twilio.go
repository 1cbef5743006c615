package services

import (
	"context"
	"fmt"
	"log"

	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/config"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Notifier delivers a text message to a carrier contact
type Notifier interface {
	Notify(ctx context.Context, to, message string) error
}

// NewNotifier returns Twilio WhatsApp delivery when credentials are present,
// otherwise a notifier that only logs
func NewNotifier(cfg config.TwilioConfig) Notifier {
	if !cfg.Configured() {
		log.Println("⚠️  Twilio credentials not found - carrier notifications will be logged only")
		return LogNotifier{}
	}
	return NewTwilioService(cfg)
}

type TwilioService struct {
	client *twilio.RestClient
	from   string // Format: "whatsapp:+14155238886"
}

// NewTwilioService creates a new Twilio service instance
func NewTwilioService(cfg config.TwilioConfig) *TwilioService {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})

	return &TwilioService{
		client: client,
		from:   cfg.WhatsAppFrom,
	}
}

// Notify sends a WhatsApp message via Twilio
func (t *TwilioService) Notify(_ context.Context, to, message string) error {
	if to == "" {
		return fmt.Errorf("no contact phone")
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(t.from)
	params.SetTo(fmt.Sprintf("whatsapp:%s", to))
	params.SetBody(message)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("❌ Failed to send WhatsApp message: %v", err)
		return err
	}

	if resp.ErrorCode != nil && *resp.ErrorCode != 0 {
		return fmt.Errorf("twilio error %d", *resp.ErrorCode)
	}

	if resp.Sid != nil {
		log.Printf("✅ WhatsApp message sent! SID: %s", *resp.Sid)
	}
	return nil
}

// LogNotifier writes messages to the log instead of sending them
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, to, message string) error {
	log.Printf("📨 [notify %s] %s", to, message)
	return nil
}
