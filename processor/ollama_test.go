package processor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOllamaProcess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if req.Stream {
			t.Error("stream should be false")
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("messages = %+v", req.Messages)
		}
		if req.Messages[1].Content != "um so hello world" {
			t.Errorf("user content = %q", req.Messages[1].Content)
		}
		json.NewEncoder(rw).Encode(chatResponse{
			Message: chatMessage{Role: "assistant", Content: "Hello, world."},
		})
	}))
	defer srv.Close()

	o := NewOllama(OllamaConfig{URL: srv.URL})
	out, err := o.Process(context.Background(), "um so hello world", ModeCleanup, "")
	if err != nil {
		t.Fatal(err)
	}
	if out != "Hello, world." {
		t.Errorf("out = %q", out)
	}
}

func TestOllamaModeNoneSkipsServer(t *testing.T) {
	o := NewOllama(OllamaConfig{URL: "http://127.0.0.1:1"})
	out, err := o.Process(context.Background(), "raw text", ModeNone, "")
	if err != nil {
		t.Fatal(err)
	}
	if out != "raw text" {
		t.Errorf("out = %q", out)
	}
}

func TestOllamaCustomTemplate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		var req chatRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Messages[0].Content != "translate to pirate speak" {
			t.Errorf("system prompt = %q", req.Messages[0].Content)
		}
		json.NewEncoder(rw).Encode(chatResponse{
			Message: chatMessage{Content: "ahoy world"},
		})
	}))
	defer srv.Close()

	o := NewOllama(OllamaConfig{URL: srv.URL})
	out, err := o.Process(context.Background(), "hello world", ModeCustom, "translate to pirate speak")
	if err != nil {
		t.Fatal(err)
	}
	if out != "ahoy world" {
		t.Errorf("out = %q", out)
	}
}

func TestOllamaEmptyRewriteIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		json.NewEncoder(rw).Encode(chatResponse{})
	}))
	defer srv.Close()

	o := NewOllama(OllamaConfig{URL: srv.URL})
	if _, err := o.Process(context.Background(), "hello", ModeCleanup, ""); err == nil {
		t.Fatal("expected error on empty rewrite")
	}
}
