package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestTelegram_Notify(t *testing.T) {
	var gotPath string
	var gotBody map[string]string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer ts.Close()

	n, err := NewTelegram("123:abc", "42", WithTelegramBaseURL(ts.URL))
	if err != nil {
		t.Fatalf("NewTelegram failed: %v", err)
	}

	err = n.Notify(context.Background(), Event{
		Title: "Order placed",
		Body:  "24ska01 in bhs, order 123456789",
	})
	if err != nil {
		t.Fatalf("Notify failed: %v", err)
	}

	if gotPath != "/bot123:abc/sendMessage" {
		t.Errorf("path = %q", gotPath)
	}
	if gotBody["chat_id"] != "42" {
		t.Errorf("chat_id = %q", gotBody["chat_id"])
	}
	if !strings.Contains(gotBody["text"], "Order placed") || !strings.Contains(gotBody["text"], "123456789") {
		t.Errorf("text = %q", gotBody["text"])
	}
}

func TestTelegram_NotifyAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"ok":false,"description":"chat not found"}`, http.StatusBadRequest)
	}))
	defer ts.Close()

	n, _ := NewTelegram("123:abc", "42", WithTelegramBaseURL(ts.URL))
	if err := n.Notify(context.Background(), Event{Title: "x"}); err == nil {
		t.Error("expected an error for a non-200 response")
	}
}

func TestNewTelegram_RequiresTokenAndChat(t *testing.T) {
	if _, err := NewTelegram("", "42"); err == nil {
		t.Error("expected an error for a missing token")
	}
	if _, err := NewTelegram("123:abc", ""); err == nil {
		t.Error("expected an error for a missing chat id")
	}
}

type failing struct{ err error }

func (f failing) Notify(context.Context, Event) error { return f.err }

func TestMulti_ReturnsFirstError(t *testing.T) {
	errA := errors.New("a")
	m := Multi{failing{nil}, failing{errA}, failing{errors.New("b")}}
	if err := m.Notify(context.Background(), Event{}); !errors.Is(err, errA) {
		t.Errorf("expected first error, got %v", err)
	}
}
