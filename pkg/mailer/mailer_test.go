package mailer

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/mofihq/mofi-backend/pkg/config"
)

func TestSMTPSenderBuildsMessage(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte

	sender := &SMTPSender{
		cfg: config.SMTPConfig{Host: "smtp.example.com", Port: 587, Sender: "no-reply@example.com", Password: "pw"},
		send: func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
			return nil
		},
	}

	subject, body := VerificationEmail("Ada", "https://api.example.com/verify/abc")
	if err := sender.Send(context.Background(), "ada@example.com", subject, body); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	if gotAddr != "smtp.example.com:587" {
		t.Fatalf("unexpected addr %q", gotAddr)
	}
	if gotFrom != "no-reply@example.com" {
		t.Fatalf("unexpected from %q", gotFrom)
	}
	if len(gotTo) != 1 || gotTo[0] != "ada@example.com" {
		t.Fatalf("unexpected recipients %v", gotTo)
	}
	raw := string(gotMsg)
	if !strings.Contains(raw, "Subject: Verify your MOFI account\r\n") {
		t.Fatalf("subject header missing:\n%s", raw)
	}
	if !strings.Contains(raw, "Content-Type: text/html") {
		t.Fatalf("html content type missing:\n%s", raw)
	}
	if !strings.Contains(raw, "https://api.example.com/verify/abc") {
		t.Fatalf("verification link missing:\n%s", raw)
	}
}

func TestSMTPSenderPropagatesFailure(t *testing.T) {
	sender := &SMTPSender{
		cfg: config.SMTPConfig{Host: "smtp.example.com", Port: 587, Sender: "no-reply@example.com"},
		send: func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			return errors.New("connection refused")
		},
	}

	err := sender.Send(context.Background(), "ada@example.com", "s", "b")
	if err == nil {
		t.Fatal("expected smtp failure to propagate")
	}
	if !strings.Contains(err.Error(), "ada@example.com") {
		t.Fatalf("error should name the recipient: %v", err)
	}
}

func TestSMTPSenderRejectsEmptyRecipient(t *testing.T) {
	sender := &SMTPSender{cfg: config.SMTPConfig{Host: "h", Sender: "s@example.com"}}
	if err := sender.Send(context.Background(), "", "s", "b"); err == nil {
		t.Fatal("expected error for empty recipient")
	}
}

func TestNewSMTPSenderValidates(t *testing.T) {
	if _, err := NewSMTPSender(config.SMTPConfig{Sender: "s@example.com"}); err == nil {
		t.Fatal("expected missing host error")
	}
	if _, err := NewSMTPSender(config.SMTPConfig{Host: "h"}); err == nil {
		t.Fatal("expected missing sender error")
	}
}
