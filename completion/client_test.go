package completion

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGatewayClient_Complete(t *testing.T) {
	var gotBody completionRequest
	var gotRequestID string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/complete" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("Unexpected method: %s", r.Method)
		}
		gotRequestID = r.Header.Get("X-Request-ID")

		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("Failed to decode request body: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"completion": `{"bp": "120/80"}`})
	}))
	defer server.Close()

	client := NewGatewayClient(server.URL, 5*time.Second)

	out, err := client.Complete(context.Background(), "extract vitals", 256, 24)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if out != `{"bp": "120/80"}` {
		t.Errorf("Unexpected completion: %q", out)
	}

	if gotBody.Prompt != "extract vitals" {
		t.Errorf("Expected prompt forwarded, got %q", gotBody.Prompt)
	}
	if gotBody.MaxTokens != 256 || gotBody.MinTokens != 24 {
		t.Errorf("Expected token bounds forwarded, got max=%d min=%d", gotBody.MaxTokens, gotBody.MinTokens)
	}
	if gotRequestID == "" {
		t.Error("Expected X-Request-ID header to be set")
	}
}

func TestGatewayClient_EmptyCompletionIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"completion": ""})
	}))
	defer server.Close()

	client := NewGatewayClient(server.URL, 5*time.Second)

	out, err := client.Complete(context.Background(), "prompt", 128, 0)
	if err != nil {
		t.Fatalf("Expected no error for empty completion, got: %v", err)
	}
	if out != "" {
		t.Errorf("Expected empty output, got %q", out)
	}
}

func TestGatewayClient_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewGatewayClient(server.URL, 5*time.Second)

	_, err := client.Complete(context.Background(), "prompt", 128, 0)
	if err == nil {
		t.Fatal("Expected error for 500 response")
	}
	if errors.Is(err, ErrTimeout) {
		t.Error("Server error must not be reported as timeout")
	}
}

func TestGatewayClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		json.NewEncoder(w).Encode(map[string]string{"completion": "too late"})
	}))
	defer server.Close()

	client := NewGatewayClient(server.URL, 50*time.Millisecond)

	_, err := client.Complete(context.Background(), "prompt", 128, 0)
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("Expected ErrTimeout, got: %v", err)
	}
}

func TestGatewayClient_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := NewGatewayClient(server.URL, 5*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Complete(ctx, "prompt", 128, 0)
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("Expected deadline to surface as ErrTimeout, got: %v", err)
	}
}
