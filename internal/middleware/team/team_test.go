package team

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequire(t *testing.T) {
	var got Identity
	h := Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/reports/x", nil)
	req.Header.Set(HeaderTeamID, "t1")
	req.Header.Set(HeaderTeamName, "SCIC Main")
	req.Header.Set(HeaderUserID, "u1")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, Identity{TeamID: "t1", TeamName: "SCIC Main", UserID: "u1"}, got)
}

func TestRequire_Missing(t *testing.T) {
	h := Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/reports/x", nil)
	req.Header.Set(HeaderTeamID, "t1")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
