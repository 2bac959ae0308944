package genai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func stubServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func textReply(text string) string {
	b, _ := json.Marshal(map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
	})
	return string(b)
}

func TestGenerateContent(t *testing.T) {
	var got request
	srv := stubServer(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "models/test-model:generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatal(err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(textReply("Hello there {{REC:p001}}")))
	})

	c := New("key", "test-model").WithBaseURL(srv.URL)
	out, err := c.GenerateContent(context.Background(), "be helpful", []Turn{{Role: "user", Text: "hi"}})
	if err != nil {
		t.Fatal(err)
	}
	if out != "Hello there {{REC:p001}}" {
		t.Fatalf("unexpected reply %q", out)
	}
	if got.SystemInstruction == nil || got.SystemInstruction.Parts[0].Text != "be helpful" {
		t.Fatalf("system instruction not sent: %+v", got.SystemInstruction)
	}
	if len(got.Contents) != 1 || got.Contents[0].Role != "user" {
		t.Fatalf("conversation turns not sent: %+v", got.Contents)
	}
}

func TestMatchImage(t *testing.T) {
	var got request
	srv := stubServer(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatal(err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(textReply(`{"productId":"p001","confidence":0.92,"reasoning":"gold bottle"}`)))
	})

	c := New("key", "test-model").WithBaseURL(srv.URL)
	m, err := c.MatchImage(context.Background(), []byte{0xFF, 0xD8}, "image/jpeg", "which product?")
	if err != nil {
		t.Fatal(err)
	}
	if m.ProductID != "p001" || m.Confidence != 0.92 {
		t.Fatalf("bad match: %+v", m)
	}
	if got.GenerationConfig == nil || got.GenerationConfig.ResponseMimeType != "application/json" {
		t.Fatalf("JSON response mode not requested: %+v", got.GenerationConfig)
	}
	if got.Contents[0].Parts[0].InlineData == nil {
		t.Fatal("image bytes not attached as inline data")
	}
}

// A reply that is not valid JSON is a failed match, not a panic.
func TestMatchImageMalformedReply(t *testing.T) {
	srv := stubServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(textReply("sorry, I cannot tell")))
	})

	c := New("key", "test-model").WithBaseURL(srv.URL)
	if _, err := c.MatchImage(context.Background(), []byte{1}, "image/jpeg", "which?"); err == nil {
		t.Fatal("malformed verdict must be an error")
	}
}

func TestUpstreamErrorStatus(t *testing.T) {
	srv := stubServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"quota"}`, http.StatusTooManyRequests)
	})

	c := New("key", "test-model").WithBaseURL(srv.URL)
	if _, err := c.GenerateContent(context.Background(), "", []Turn{{Role: "user", Text: "hi"}}); err == nil {
		t.Fatal("non-200 status must be an error")
	}
}

func TestMissingAPIKey(t *testing.T) {
	c := New("", "test-model")
	if _, err := c.GenerateContent(context.Background(), "", nil); err != ErrNoAPIKey {
		t.Fatalf("want ErrNoAPIKey, got %v", err)
	}
}
