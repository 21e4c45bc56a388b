package service

import (
	"context"
	"fmt"

	"github.com/AAK-MBU/MBU-Egenbefordring/config"
	"github.com/AAK-MBU/MBU-Egenbefordring/pkg/logger"
	"github.com/wneessen/go-mail"
)

const notificationSubject = "Robotten til egenbefordring er kørt"

// Mailer sends the end-of-run notification through the internal relay.
type Mailer struct {
	config *config.SMTPConfig
}

func NewMailer(cfg *config.SMTPConfig) *Mailer {
	return &Mailer{config: cfg}
}

// SendRunNotification tells the caseworker where the day's spreadsheet and
// attachments ended up. One mail per run, regardless of partial failure.
func (m *Mailer) SendRunNotification(ctx context.Context, receiver, folderURL, destination string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.config.Sender); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(receiver); err != nil {
		return fmt.Errorf("set receiver: %w", err)
	}
	msg.Subject(notificationSubject)
	msg.SetBodyString(mail.TypeTextHTML, NotificationBody(folderURL, destination))

	// The relay is an internal host on port 25 with neither TLS nor auth.
	client, err := mail.NewClient(m.config.Host,
		mail.WithPort(m.config.Port),
		mail.WithTLSPolicy(mail.NoTLS),
	)
	if err != nil {
		return fmt.Errorf("create mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}

	logger.Info(ctx, "notification sent", "receiver", receiver, "destination", destination)
	return nil
}

// NotificationBody is the Danish HTML body linking to the destination
// folder.
func NotificationBody(folderURL, destination string) string {
	return fmt.Sprintf("<p>Robotten til egenbefordring er nu kørt "+
		"og oversigten samt eventuelt relevante dokumenter "+
		"er uploadet til <a href=%q>%s-mappen</a></p>", folderURL, destination)
}
