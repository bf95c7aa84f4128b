package notifier

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func TestTelegramNotifier_Notify(t *testing.T) {
	var sent map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/getMe"):
			w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"jobsift","username":"jobsift_bot"}}`))
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			r.ParseForm()
			sent = map[string]string{
				"chat_id":    r.FormValue("chat_id"),
				"text":       r.FormValue("text"),
				"parse_mode": r.FormValue("parse_mode"),
			}
			w.Write([]byte(`{"ok":true,"result":{"message_id":7,"date":0,"chat":{"id":42,"type":"private"}}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	bot, err := tgbotapi.NewBotAPIWithClient("token", srv.URL+"/bot%s/%s", srv.Client())
	if err != nil {
		t.Fatalf("NewBotAPIWithClient: %v", err)
	}
	n := newTelegramNotifier(bot, 42, 1, discardLogger())
	if err := n.Notify(sampleSummary()); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	if sent["chat_id"] != "42" {
		t.Errorf("chat_id = %q, want 42", sent["chat_id"])
	}
	if sent["parse_mode"] != "HTML" {
		t.Errorf("parse_mode = %q, want HTML", sent["parse_mode"])
	}
	if !strings.Contains(sent["text"], "Acme &amp; Co") {
		t.Errorf("company not escaped in %q", sent["text"])
	}
	if strings.Contains(sent["text"], "second") {
		t.Errorf("expected only the top posting, got %q", sent["text"])
	}
}

func TestTelegramText(t *testing.T) {
	text := telegramText(sampleSummary(), 5)
	for _, want := range []string{
		"<b>Job postings on 03/14</b>",
		"3 jobs were found",
		`1. <a href="https://www.indeed.com/rc/clk?jk=first">first</a> (8)`,
		"3. <a",
		"Portland, OR",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("telegram text missing %q:\n%s", want, text)
		}
	}
}
