package errors

import (
	stderrors "errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStatusCodes(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{Internal("x"), http.StatusInternalServerError},
		{NotFound("x"), http.StatusNotFound},
		{RateLimit("x"), http.StatusTooManyRequests},
		{ServiceUnavailable("x"), http.StatusServiceUnavailable},
		{DataLoad(stderrors.New("line 3: bad price")), http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(string(tt.err.Code), func(t *testing.T) {
			if tt.err.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", tt.err.StatusCode, tt.want)
			}
		})
	}
}

func TestWrap_Unwrap(t *testing.T) {
	cause := stderrors.New("disk gone")
	err := Wrap(cause, CodeInternal, "reload failed")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match its cause")
	}
	if err.Error() != "INTERNAL_ERROR: reload failed (caused by: disk gone)" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, discardLogger(), NotFound("chart not found"), "req-1")

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}

	var response struct {
		Success bool `json:"success"`
		Error   struct {
			Code      string `json:"code"`
			Message   string `json:"message"`
			RequestID string `json:"request_id"`
		} `json:"error"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	if response.Success {
		t.Error("expected success=false")
	}
	if response.Error.Code != "NOT_FOUND" || response.Error.RequestID != "req-1" {
		t.Errorf("unexpected error body: %+v", response.Error)
	}
}

func TestWriteError_PlainError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, discardLogger(), stderrors.New("boom"), "")

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}

func TestWriteSuccessWithHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccessWithHeaders(w, []int{1, 2}, map[string]string{"Cache-Control": "no-store"})

	if cc := w.Header().Get("Cache-Control"); cc != "no-store" {
		t.Errorf("cache-control = %q", cc)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content-type = %q", ct)
	}

	var response struct {
		Data    []int `json:"data"`
		Success bool  `json:"success"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	if !response.Success || len(response.Data) != 2 {
		t.Errorf("unexpected body %+v", response)
	}
}
