package httpkit

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"immopilot_backend/platform/apperr"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type jwtConfig string

func (s jwtConfig) GetJWTAccessSecret() string { return string(s) }

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHandleErrorMapsWrappedDomainErrors(t *testing.T) {
	cases := []struct {
		err        error
		wantStatus int
		wantKind   string
	}{
		{fmt.Errorf("add offer: %w", apperr.Conflict("must visit first")), http.StatusConflict, "conflict"},
		{apperr.InvalidState("sale is finalized"), http.StatusUnprocessableEntity, "invalid_state"},
		{apperr.NotFound("process not found"), http.StatusNotFound, "not_found"},
		{errors.New("connection reset"), http.StatusInternalServerError, ""},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)

		if !HandleError(c, tc.err) {
			t.Fatal("expected error to be handled")
		}
		if rec.Code != tc.wantStatus {
			t.Fatalf("expected status %d, got %d", tc.wantStatus, rec.Code)
		}

		var body ErrorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Kind != tc.wantKind {
			t.Fatalf("expected kind %q, got %q", tc.wantKind, body.Kind)
		}
	}
}

func TestHandleErrorHidesUntypedMessages(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	HandleError(c, errors.New("pq: password authentication failed"))

	var body ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Error != msgInternalError {
		t.Fatalf("expected generic message, got %q", body.Error)
	}
	if len(c.Errors) != 1 {
		t.Fatalf("expected error attached to context, got %d", len(c.Errors))
	}
}

func TestAuthRequired(t *testing.T) {
	secret := jwtConfig("test-secret")
	userID := uuid.New()

	engine := gin.New()
	engine.GET("/me", AuthRequired(secret), func(c *gin.Context) {
		id := MustGetIdentity(c)
		if id == nil {
			return
		}
		c.String(http.StatusOK, id.UserID().String())
	})

	sign := func(claims jwt.MapClaims, key string) string {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
		if err != nil {
			t.Fatalf("sign token: %v", err)
		}
		return token
	}

	valid := sign(jwt.MapClaims{"sub": userID.String(), "type": "access", "exp": time.Now().Add(time.Minute).Unix()}, "test-secret")
	refresh := sign(jwt.MapClaims{"sub": userID.String(), "type": "refresh", "exp": time.Now().Add(time.Minute).Unix()}, "test-secret")
	foreign := sign(jwt.MapClaims{"sub": userID.String(), "type": "access"}, "other-secret")

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"valid", "Bearer " + valid, http.StatusOK},
		{"refresh token", "Bearer " + refresh, http.StatusUnauthorized},
		{"wrong key", "Bearer " + foreign, http.StatusUnauthorized},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)

		if rec.Code != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.want, rec.Code)
		}
		if tc.want == http.StatusOK && rec.Body.String() != userID.String() {
			t.Fatalf("%s: expected user id in body, got %q", tc.name, rec.Body.String())
		}
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Header().Get(HeaderRequestID) != "abc-123" {
		t.Fatalf("expected request id to be echoed, got %q", rec.Header().Get(HeaderRequestID))
	}
}
