package respond

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestJSONEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusOK, "session active", map[string]string{"id": "sess_1"})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("Content-Type = %q", ct)
	}

	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !env.Success || env.Code != http.StatusOK || env.Message != "session active" {
		t.Fatalf("envelope = %+v", env)
	}
	if env.Data == nil {
		t.Fatal("payload missing")
	}
}

func TestErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, http.StatusUnauthorized, "Senha incorreta")

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Success {
		t.Fatal("failure envelope must not report success")
	}
	if env.Message != "Senha incorreta" {
		t.Fatalf("message = %q", env.Message)
	}
	if env.Data != nil {
		t.Fatalf("failure envelope must omit data, got %v", env.Data)
	}
}
