package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"nunchakuclub/internal/result"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		kind result.Kind
		want int
	}{
		{result.KindNotFound, http.StatusNotFound},
		{result.KindConflict, http.StatusConflict},
		{result.KindValidation, http.StatusBadRequest},
		{result.KindUnauthorized, http.StatusUnauthorized},
		{result.KindUnexpected, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := statusFor(tt.kind); got != tt.want {
				t.Errorf("statusFor(%s) = %d, want %d", tt.kind, got, tt.want)
			}
		})
	}
}

func TestRespondWritesFailureBody(t *testing.T) {
	rr := httptest.NewRecorder()
	respond(rr, result.Conflict[int]("email already exists"), http.StatusOK)

	if rr.Code != http.StatusConflict {
		t.Fatalf("status: got %d, want 409", rr.Code)
	}
	var body errorBody
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != "email already exists" {
		t.Errorf("error: got %q", body.Error)
	}
}

func TestDecode(t *testing.T) {
	t.Run("malformed JSON", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":`))
		var dst map[string]any
		if decode(rr, req, &dst) {
			t.Fatal("decode should fail")
		}
		if rr.Code != http.StatusBadRequest {
			t.Errorf("status: got %d, want 400", rr.Code)
		}
	})

	t.Run("oversized body", func(t *testing.T) {
		rr := httptest.NewRecorder()
		big := `{"content":"` + strings.Repeat("a", maxBodySize) + `"}`
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big))
		var dst map[string]any
		if decode(rr, req, &dst) {
			t.Fatal("decode should fail")
		}
		if rr.Code != http.StatusRequestEntityTooLarge {
			t.Errorf("status: got %d, want 413", rr.Code)
		}
	})
}

func TestPathID(t *testing.T) {
	rr := httptest.NewRecorder()
	req := withParams(httptest.NewRequest(http.MethodGet, "/", nil), "id", "not-a-uuid")
	if _, ok := pathID(rr, req, "id"); ok {
		t.Fatal("pathID should reject a malformed UUID")
	}
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "invalid id") {
		t.Errorf("body: got %q", rr.Body.String())
	}
}
