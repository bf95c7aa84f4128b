package notifier

import (
	"errors"
	"net/smtp"
	"strings"
	"testing"
)

func testEmailNotifier() *EmailNotifier {
	return NewEmailNotifier(EmailSettings{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "bot@example.com",
		Password: "secret",
		From:     "bot@example.com",
		To:       []string{"sam@example.com", "alex@example.com"},
		Greeting: "Hi there,",
	}, 2, discardLogger())
}

func TestEmailNotifier_Message(t *testing.T) {
	msg := string(testEmailNotifier().message(sampleSummary()))

	for _, want := range []string{
		"To: sam@example.com, alex@example.com\r\n",
		"Subject: Job postings on 03/14\r\n",
		"Hi there,\r\n\r\nThe script was just run and 3 jobs were found. 1 jobs appear to have a pretty high relevance score\r\n",
		"1. first (score 8)\r\n   Acme & Co, Portland, OR\r\n   https://www.indeed.com/rc/clk?jk=first\r\n",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
	if strings.Contains(msg, "third") {
		t.Error("message lists more than the top 2 postings")
	}
}

func TestEmailNotifier_Notify(t *testing.T) {
	n := testEmailNotifier()
	var gotAddr, gotFrom string
	var gotTo []string
	var gotAuth smtp.Auth
	n.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotAuth, gotFrom, gotTo = addr, a, from, to
		return nil
	}

	if err := n.Notify(sampleSummary()); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if gotAddr != "smtp.example.com:587" {
		t.Errorf("addr = %q", gotAddr)
	}
	if gotAuth == nil {
		t.Error("expected PLAIN auth when username is set")
	}
	if gotFrom != "bot@example.com" || len(gotTo) != 2 {
		t.Errorf("envelope = %q -> %v", gotFrom, gotTo)
	}
}

func TestEmailNotifier_SendError(t *testing.T) {
	n := testEmailNotifier()
	n.send = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}
	if err := n.Notify(sampleSummary()); err == nil {
		t.Fatal("expected error, got nil")
	}
}
