package notifier

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/satraksha/hazard-backend/internal/models"
)

// EmailNotifier отправляет письма об опасных ситуациях в экстренные службы.
type EmailNotifier struct {
	host      string
	port      int
	username  string
	password  string
	from      string
	recipient string
}

// NewEmailNotifier создаёт экземпляр отправителя.
func NewEmailNotifier(host string, port int, username, password, from, recipient string) *EmailNotifier {
	return &EmailNotifier{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		from:      from,
		recipient: recipient,
	}
}

// Recipient возвращает адрес службы, в которую уходят оповещения.
func (n *EmailNotifier) Recipient() string {
	return n.recipient
}

// SendHazardAlert отправляет срочное оповещение о новом отчёте.
func (n *EmailNotifier) SendHazardAlert(hazard *models.Hazard) error {
	subject := fmt.Sprintf("Urgent: %s Alert in (%.6f, %.6f)", hazard.HazardType, hazard.Lat, hazard.Lng)

	description := ""
	if hazard.Description != nil {
		description = *hazard.Description
	}

	body := fmt.Sprintf(
		"A new %s has been reported.\n\n"+
			"Location: %.6f, %.6f\n"+
			"Severity: high\n"+
			"Description: %s\n"+
			"Reported at: %s\n\n"+
			"Please dispatch a response team to the location.",
		hazard.HazardType,
		hazard.Lat, hazard.Lng,
		description,
		hazard.CreatedAt.Format("2006-01-02 15:04:05 MST"),
	)

	msg := gomail.NewMessage()
	msg.SetHeader("From", n.from)
	msg.SetHeader("To", n.recipient)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	dialer := gomail.NewDialer(n.host, n.port, n.username, n.password)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("notifier: не удалось отправить письмо: %w", err)
	}

	return nil
}
