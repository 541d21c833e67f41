package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/mail"
	"net/smtp"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bburg/bsquared-dev/internal/config"
)

var errSMTPNotConfigured = errors.New("SMTP credentials not configured")

const maxMessageLen = 5000

type contactMessage struct {
	Name    string
	Email   string
	Message string
}

// validate trims the fields and checks they are usable in a mail header.
func (m *contactMessage) validate() error {
	m.Name = strings.TrimSpace(m.Name)
	m.Email = strings.TrimSpace(m.Email)
	m.Message = strings.TrimSpace(m.Message)

	switch {
	case m.Name == "" || m.Email == "" || m.Message == "":
		return errors.New("all fields are required")
	case strings.ContainsAny(m.Name+m.Email, "\r\n"):
		return errors.New("invalid characters in name or email")
	case len(m.Message) > maxMessageLen:
		return fmt.Errorf("message longer than %d characters", maxMessageLen)
	}
	if _, err := mail.ParseAddress(m.Email); err != nil {
		return errors.New("invalid email address")
	}
	return nil
}

type mailer interface {
	Send(msg contactMessage) error
}

type smtpMailer struct {
	cfg config.SMTPConfig
}

func (m *smtpMailer) Send(msg contactMessage) error {
	cfg := m.cfg
	if cfg.User == "" || cfg.Pass == "" || cfg.To == "" {
		return errSMTPNotConfigured
	}

	subject := fmt.Sprintf("Portfolio Contact: %s", msg.Name)
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form
`, msg.Name, msg.Email, msg.Message)

	raw := []byte("To: " + cfg.To + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + cfg.User + "\r\n" +
		"Reply-To: " + msg.Email + "\r\n" +
		"\r\n" +
		body + "\r\n")

	auth := smtp.PlainAuth("", cfg.User, cfg.Pass, cfg.Host)
	if err := smtp.SendMail(cfg.Host+":"+cfg.Port, auth, cfg.User, []string{cfg.To}, raw); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

func (s *server) setupContactRoutes(r *gin.Engine) {
	// HTMX Contact form endpoint - returns just the form HTML
	r.GET("/contact-form", func(c *gin.Context) {
		c.HTML(http.StatusOK, "contact.html", gin.H{
			"title": "Contact Me",
		})
	})

	r.POST("/contact", func(c *gin.Context) {
		msg := contactMessage{
			Name:    c.PostForm("fullName"),
			Email:   c.PostForm("email"),
			Message: c.PostForm("message"),
		}
		if err := msg.validate(); err != nil {
			s.metrics.ContactSubmitted("invalid")
			c.HTML(http.StatusOK, "contact-error.html", gin.H{
				"error": "Please check the form: " + err.Error() + ".",
			})
			return
		}

		if err := s.mailer.Send(msg); err != nil {
			s.metrics.ContactSubmitted("failed")
			s.logger.Error("contact email failed", slog.Any("err", err))
			c.HTML(http.StatusOK, "contact-error.html", gin.H{
				"error": "Sorry, there was an error sending your message. Please try again later.",
			})
			return
		}

		s.metrics.ContactSubmitted("sent")
		s.logger.Info("contact email sent", slog.String("from", msg.Email))
		c.HTML(http.StatusOK, "contact-success.html", gin.H{
			"success": "Thank you for your message! I'll get back to you soon.",
		})
	})
}
