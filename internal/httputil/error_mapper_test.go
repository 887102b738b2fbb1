package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

var errNotFound = errors.New("dish not found")

func TestErrorMapper_Map(t *testing.T) {
	m := NewErrorMapper().
		WithMapping(errNotFound, http.StatusNotFound, "").
		WithDefault(http.StatusBadGateway, "upstream failed")

	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"nil", nil, http.StatusOK, ""},
		{"wrapped mapping", fmt.Errorf("lookup: %w", errNotFound), http.StatusNotFound, "lookup: dish not found"},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout, "request timeout"},
		{"default", errors.New("boom"), http.StatusBadGateway, "upstream failed"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := m.Map(tc.err)
			if got.Status != tc.status || got.Message != tc.msg {
				t.Errorf("Map(%v) = %+v, want %d %q", tc.err, got, tc.status, tc.msg)
			}
		})
	}
}

func TestErrorMapper_Respond(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewErrorMapper().WithMapping(errNotFound, http.StatusNotFound, "not here")

	r := gin.New()
	r.GET("/x", func(c *gin.Context) { m.Respond(c, errNotFound) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["error"] != "not here" {
		t.Errorf("unexpected body %v", body)
	}
}
