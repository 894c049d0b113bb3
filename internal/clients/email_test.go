package clients

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/eyadahmed25/customer-management/internal/config"
)

func sendGridConfig(baseURL string) config.SendGridConfig {
	return config.SendGridConfig{
		BaseURL:        baseURL,
		APIKey:         "sg-key",
		FromEmail:      "noreply@example.com",
		FromName:       "The Customer Management Team",
		TimeoutSeconds: 2,
	}
}

func TestSendGridSender_SendWelcome(t *testing.T) {
	var captured []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v3/mail/send" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sg-key" {
			t.Errorf("unexpected authorization header %q", got)
		}
		captured, _ = io.ReadAll(r.Body)
		w.Header().Set("X-Message-Id", "msg-42")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	sender := NewSendGridSender(sendGridConfig(server.URL), zap.NewNop())
	result := sender.SendWelcome(context.Background(), "jane@example.com", "Jane")

	if !result.IsSuccess {
		t.Fatalf("expected success, got %+v", result)
	}
	if result.StatusCode != http.StatusAccepted || result.MessageID != "msg-42" {
		t.Fatalf("unexpected result fields: %+v", result)
	}

	var payload map[string]any
	if err := json.Unmarshal(captured, &payload); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	body := string(captured)
	if !strings.Contains(body, "jane@example.com") {
		t.Fatalf("payload missing recipient: %s", body)
	}
	if !strings.Contains(body, "Hello Jane") {
		t.Fatalf("payload missing personalized greeting: %s", body)
	}
	if !strings.Contains(body, "Welcome to Customer Management!") {
		t.Fatalf("payload missing subject: %s", body)
	}
	if !strings.Contains(body, "text/html") {
		t.Fatalf("payload missing html part: %s", body)
	}
}

func TestSendGridSender_ProviderRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"errors":[{"message":"bad request"}]}`, http.StatusBadRequest)
	}))
	defer server.Close()

	sender := NewSendGridSender(sendGridConfig(server.URL), zap.NewNop())
	result := sender.SendWelcome(context.Background(), "jane@example.com", "Jane")

	if result.IsSuccess {
		t.Fatal("expected failure result for 400")
	}
	if result.StatusCode != http.StatusBadRequest || result.ErrorMessage == "" {
		t.Fatalf("unexpected result fields: %+v", result)
	}
}

func TestSendGridSender_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	sender := NewSendGridSender(sendGridConfig(server.URL), zap.NewNop())
	result := sender.SendWelcome(context.Background(), "jane@example.com", "Jane")

	if result.IsSuccess {
		t.Fatal("expected failure when the provider is unreachable")
	}
	if result.ErrorMessage == "" {
		t.Fatal("expected explanatory message")
	}
}
