// Package services содержит рассылку платёжных алертов на почту стойки.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sunsetfitness/gym-desk/internal/lib/sl"
	"github.com/sunsetfitness/gym-desk/internal/lib/smtp"
	"github.com/sunsetfitness/gym-desk/internal/models"
)

// SenderService превращает сообщения очереди алертов в письма.
type SenderService struct {
	transport  smtp.TransportInterface
	alertEmail string
	log        *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(transport smtp.TransportInterface, alertEmail string, log *slog.Logger) *SenderService {
	return &SenderService{
		transport:  transport,
		alertEmail: alertEmail,
		log:        log,
	}
}

// SendOverdueAlert отправляет стойке письмо о просроченной оплате.
func (s *SenderService) SendOverdueAlert(body []byte) error {
	var alert models.Alert
	if err := json.Unmarshal(body, &alert); err != nil {
		s.log.Error("failed to unmarshal alert body", sl.Err(err))
		return fmt.Errorf("error unmarshalling alert: %w", err)
	}

	subject := "Просроченная оплата абонемента"
	bodyText := fmt.Sprintf(
		"Клиент %s просрочил оплату на %d дн.\nДата платежа: %s.\nДопуск в зал заблокирован до погашения.",
		alert.MemberName, alert.DaysLate, alert.DueDate.Format(time.DateOnly))

	return s.sendEmail([]string{s.alertEmail}, subject, bodyText)
}

// SendUpcomingAlert отправляет стойке письмо о приближающемся сроке оплаты.
func (s *SenderService) SendUpcomingAlert(body []byte) error {
	var alert models.Alert
	if err := json.Unmarshal(body, &alert); err != nil {
		s.log.Error("failed to unmarshal alert body", sl.Err(err))
		return fmt.Errorf("error unmarshalling alert: %w", err)
	}

	subject := "Скоро срок оплаты абонемента"
	bodyText := fmt.Sprintf(
		"У клиента %s срок оплаты %s (осталось %d дн.).",
		alert.MemberName, alert.DueDate.Format(time.DateOnly), alert.DaysLeft)

	return s.sendEmail([]string{s.alertEmail}, subject, bodyText)
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() { _ = client.Close() }()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", sl.Err(err))
		return err
	}
	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}
	if _, err := wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write message body", sl.Err(err))
		return err
	}
	if err := wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}

	return client.Quit()
}
