package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jasiri-energy/gasline-backend/pkg/logger"
)

func TestLoggingPreservesStatusAndBody(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test"})
	handler := Logging(logg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		if _, err := w.Write([]byte(`{"ok":true}`)); err != nil {
			t.Fatal(err)
		}
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/price-lists", nil))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if resp.Body.String() != `{"ok":true}` {
		t.Fatalf("unexpected body %q", resp.Body.String())
	}
}

func TestStatusRecorderDefaultsToOKOnWrite(t *testing.T) {
	rec := &statusRecorder{ResponseWriter: httptest.NewRecorder()}
	if _, err := rec.Write([]byte("pong")); err != nil {
		t.Fatal(err)
	}
	if rec.status != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.status)
	}
	if rec.bytes != 4 {
		t.Fatalf("expected 4 bytes got %d", rec.bytes)
	}
}

func TestStatusRecorderCapturesExplicitStatus(t *testing.T) {
	rec := &statusRecorder{ResponseWriter: httptest.NewRecorder()}
	rec.WriteHeader(http.StatusConflict)
	if rec.status != http.StatusConflict {
		t.Fatalf("expected status 409 got %d", rec.status)
	}
}
