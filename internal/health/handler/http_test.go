package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
)

type stubPinger struct {
	err error
}

func (s stubPinger) PingContext(ctx context.Context) error { return s.err }

func TestCheck(t *testing.T) {
	r := mux.NewRouter()
	NewHandler(stubPinger{}).Register(r)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
}

func TestCheckDB(t *testing.T) {
	cases := []struct {
		name string
		db   Pinger
		want int
	}{
		{"healthy", stubPinger{}, http.StatusOK},
		{"unreachable", stubPinger{err: errors.New("dial tcp: refused")}, http.StatusServiceUnavailable},
		{"unconfigured", nil, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := mux.NewRouter()
			NewHandler(tc.db).Register(r)

			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/health/db", nil))
			if rr.Code != tc.want {
				t.Fatalf("status = %d, want %d", rr.Code, tc.want)
			}
		})
	}
}
