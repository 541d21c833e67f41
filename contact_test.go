package main

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactMessageValidate(t *testing.T) {
	tests := []struct {
		name    string
		msg     contactMessage
		wantErr string
	}{
		{"ok", contactMessage{" Ada ", "ada@example.com", " hi "}, ""},
		{"missing name", contactMessage{"", "ada@example.com", "hi"}, "required"},
		{"blank message", contactMessage{"Ada", "ada@example.com", "   "}, "required"},
		{"header injection", contactMessage{"Ada\r\nBcc: x@y.z", "ada@example.com", "hi"}, "invalid characters"},
		{"bad email", contactMessage{"Ada", "not-an-email", "hi"}, "invalid email"},
		{"too long", contactMessage{"Ada", "ada@example.com", strings.Repeat("x", maxMessageLen+1)}, "longer than"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	m := contactMessage{" Ada ", " ada@example.com ", " hi "}
	require.NoError(t, m.validate())
	assert.Equal(t, contactMessage{"Ada", "ada@example.com", "hi"}, m)
}

func contactForm(name, email, message string) string {
	return url.Values{"fullName": {name}, "email": {email}, "message": {message}}.Encode()
}

func TestContactForm(t *testing.T) {
	e := newTestEnv(t)
	w := e.get("/contact-form")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `hx-post="/contact"`)
	assert.Contains(t, w.Body.String(), `name="fullName"`)
}

func TestContactSubmit(t *testing.T) {
	e := newTestEnv(t)
	w := e.postForm("/contact", contactForm("Ada", "ada@example.com", "Hello there"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Thank you for your message")

	require.Len(t, e.mailer.sent, 1)
	assert.Equal(t, contactMessage{"Ada", "ada@example.com", "Hello there"}, e.mailer.sent[0])
}

func TestContactSubmitInvalid(t *testing.T) {
	e := newTestEnv(t)
	w := e.postForm("/contact", contactForm("Ada", "nope", "Hello"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Please check the form: invalid email address.")
	assert.Empty(t, e.mailer.sent)
}

func TestContactSubmitSendFails(t *testing.T) {
	e := newTestEnv(t)
	e.mailer.err = errors.New("connection refused")

	w := e.postForm("/contact", contactForm("Ada", "ada@example.com", "Hello"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "error sending your message")
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestSMTPMailerNeedsCredentials(t *testing.T) {
	m := &smtpMailer{}
	err := m.Send(contactMessage{"Ada", "ada@example.com", "hi"})
	assert.ErrorIs(t, err, errSMTPNotConfigured)
}
