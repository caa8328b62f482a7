package whatsapp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSendReturnsProviderMessageID(t *testing.T) {
	var gotPath, gotAuth string
	var gotPayload map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotPayload)
		_, _ = w.Write([]byte(`{"messaging_product":"whatsapp","messages":[{"id":"wamid.ABC123"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "555000", "token-xyz")
	id, err := c.Send(context.Background(), "919800000001", TextContent{Body: "hello"})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if id != "wamid.ABC123" {
		t.Errorf("id = %q, want wamid.ABC123", id)
	}
	if gotPath != "/555000/messages" {
		t.Errorf("path = %q, want /555000/messages", gotPath)
	}
	if gotAuth != "Bearer token-xyz" {
		t.Errorf("auth = %q", gotAuth)
	}
	if gotPayload["to"] != "919800000001" || gotPayload["type"] != "text" {
		t.Errorf("payload = %v", gotPayload)
	}
}

func TestSendSurfacesProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid recipient"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "555000", "token-xyz")
	_, err := c.Send(context.Background(), "bad", TextContent{Body: "hello"})

	var sendErr *SendError
	if !errors.As(err, &sendErr) {
		t.Fatalf("err = %v, want *SendError", err)
	}
	if sendErr.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d, want 400", sendErr.StatusCode)
	}
}

func TestSendRejectsEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"messages":[]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "555000", "token-xyz")
	if _, err := c.Send(context.Background(), "919800000001", TextContent{Body: "hi"}); err == nil {
		t.Error("expected error when response carries no message id")
	}
}

func TestMarkAsReadPayload(t *testing.T) {
	var gotPayload map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotPayload)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "555000", "token-xyz")
	if err := c.MarkAsRead(context.Background(), "wamid.in1"); err != nil {
		t.Fatalf("MarkAsRead: %v", err)
	}
	if gotPayload["status"] != "read" || gotPayload["message_id"] != "wamid.in1" {
		t.Errorf("payload = %v", gotPayload)
	}
}
