// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package mailer delivers contact form notifications over SMTP.
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/mail"
	"net/smtp"
	"strings"

	"github.com/scorredoira/email"

	"github.com/mccastellazzob/motoclub/internal/config"
)

// SubjectPrefix tags every notification sent to the club inbox.
const SubjectPrefix = "[MC Castellazzo] Nuovo messaggio: "

// Attachment is a file uploaded with a contact message.
type Attachment struct {
	Name string
	Data []byte
}

// ContactMessage is a validated contact form submission.
type ContactMessage struct {
	Reference   string
	Name        string
	Surname     string
	Email       string
	Phone       string
	Topic       string
	TopicLabel  string
	Message     string
	Attachments []Attachment
}

type sendFunc func(addr string, auth smtp.Auth, m *email.Message) error

// Mailer sends contact notifications. A Mailer without an SMTP address logs
// messages instead of sending them.
type Mailer struct {
	addr     string
	user     string
	password string
	from     string
	to       string
	logger   *slog.Logger
	send     sendFunc
}

// New creates a Mailer from the application configuration.
func New(cfg *config.Config, logger *slog.Logger) *Mailer {
	return &Mailer{
		addr:     cfg.SMTPAddr,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.ContactFrom,
		to:       cfg.ContactTo,
		logger:   logger,
		send:     email.Send,
	}
}

// Enabled reports whether an SMTP relay is configured.
func (m *Mailer) Enabled() bool {
	return m.addr != ""
}

// SendContact delivers a contact notification to the club inbox.
func (m *Mailer) SendContact(ctx context.Context, msg ContactMessage) error {
	if !m.Enabled() {
		m.logger.InfoContext(ctx, "smtp not configured, contact message not sent",
			"reference", msg.Reference, "from", msg.Email)
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	em, err := m.Build(msg)
	if err != nil {
		return err
	}

	var auth smtp.Auth
	if m.user != "" {
		host, _, err := net.SplitHostPort(m.addr)
		if err != nil {
			return fmt.Errorf("invalid smtp address %q: %w", m.addr, err)
		}
		auth = smtp.PlainAuth("", m.user, m.password, host)
	}

	if err := m.send(m.addr, auth, em); err != nil {
		return fmt.Errorf("sending contact email: %w", err)
	}
	m.logger.InfoContext(ctx, "contact email sent", "reference", msg.Reference)
	return nil
}

// Build assembles the notification without sending it.
func (m *Mailer) Build(msg ContactMessage) (*email.Message, error) {
	label := msg.TopicLabel
	if label == "" {
		label = msg.Topic
	}
	if label == "" {
		label = "Contatto"
	}

	em := email.NewMessage(SubjectPrefix+label, contactBody(msg))
	em.From = mail.Address{Name: "MC Castellazzo", Address: m.from}
	em.To = []string{m.to}
	if msg.Email != "" {
		em.ReplyTo = msg.Email
	}
	for _, a := range msg.Attachments {
		if err := em.AttachBuffer(a.Name, a.Data, false); err != nil {
			return nil, fmt.Errorf("attaching %s: %w", a.Name, err)
		}
	}
	return em, nil
}

func contactBody(msg ContactMessage) string {
	phone := msg.Phone
	if phone == "" {
		phone = "Non fornito"
	}

	var b strings.Builder
	b.WriteString("Nuovo messaggio dal sito MC Castellazzo\n")
	b.WriteString("========================================\n\n")
	fmt.Fprintf(&b, "Riferimento: %s\n", msg.Reference)
	fmt.Fprintf(&b, "Nome: %s %s\n", msg.Name, msg.Surname)
	fmt.Fprintf(&b, "Email: %s\n", msg.Email)
	fmt.Fprintf(&b, "Telefono: %s\n", phone)
	fmt.Fprintf(&b, "Argomento: %s\n\n", msg.Topic)
	b.WriteString("Messaggio:\n")
	b.WriteString(msg.Message)
	b.WriteString("\n\n---\nInviato dal form contatti di mccastellazzob.com\n")
	return b.String()
}
