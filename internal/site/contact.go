package site

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	netmail "net/mail"

	"github.com/hdang/siteadmin/internal/mail"
	"github.com/hdang/siteadmin/model"
	"gorm.io/gorm"
)

var ErrInvalidEmail = errors.New("invalid email address")

type ContactInput struct {
	Name    string
	Email   string
	Subject string
	Body    string
	IP      string
}

// ContactService stores contact-form submissions and forwards them by mail.
// Mail delivery is best effort; a failed send never loses the stored message.
type ContactService struct {
	db     *gorm.DB
	sender mail.MailSender
	to     string
}

func (s *ContactService) Submit(ctx context.Context, input ContactInput) (*model.ContactMessage, error) {
	if _, err := netmail.ParseAddress(input.Email); err != nil {
		return nil, ErrInvalidEmail
	}

	message := model.ContactMessage{
		Name:      input.Name,
		Email:     input.Email,
		Subject:   input.Subject,
		Body:      input.Body,
		IPAddress: input.IP,
	}
	if err := s.db.WithContext(ctx).Create(&message).Error; err != nil {
		return nil, err
	}

	if s.sender != nil && s.to != "" {
		go func() {
			err := s.sender.Send(&mail.Message{
				To:      []string{s.to},
				ReplyTo: input.Email,
				Subject: "[contact] " + input.Subject,
				Body:    fmt.Sprintf("From: %s <%s>\n\n%s", input.Name, input.Email, input.Body),
			})
			if err != nil {
				slog.Error("Failed to deliver contact message", "messageId", message.ID, "error", err)
			}
		}()
	}
	return &message, nil
}

func NewContactService(db *gorm.DB, sender mail.MailSender, to string) *ContactService {
	return &ContactService{db: db, sender: sender, to: to}
}
