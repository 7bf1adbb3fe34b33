package http

import "testing"

func TestSummarizeBodyRedactsSecrets(t *testing.T) {
	body := []byte(`{"email":"ada@example.com","password":"hunter2","otp":"004213"}`)
	summary, ok := summarizeBody(body).(map[string]interface{})
	if !ok {
		t.Fatalf("expected a map summary")
	}
	if summary["email"] != "ada@example.com" {
		t.Fatalf("expected email preserved, got %v", summary["email"])
	}
	if summary["password"] != "redacted" || summary["otp"] != "redacted" {
		t.Fatalf("expected credentials redacted, got %v", summary)
	}
}

func TestSummarizeBodyNonJSON(t *testing.T) {
	if got := summarizeBody([]byte("plain text")); got != "opaque" {
		t.Fatalf("expected opaque for non-JSON body, got %v", got)
	}
	if got := summarizeBody(nil); got != nil {
		t.Fatalf("expected nil for empty body, got %v", got)
	}
	if got := summarizeBody(make([]byte, maxLoggedBody+1)); got != "truncated" {
		t.Fatalf("expected truncated for oversize body, got %v", got)
	}
}
