package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"immopilot_backend/internal/sales/ports"
	"immopilot_backend/internal/sales/repository"
	"immopilot_backend/internal/sales/service"
	"immopilot_backend/internal/sales/transport"
	"immopilot_backend/platform/apperr"
	"immopilot_backend/platform/httpkit"
	"immopilot_backend/platform/logger"
	"immopilot_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProperties map[uuid.UUID]ports.PropertySnapshot

func (s stubProperties) GetProperty(_ context.Context, id uuid.UUID) (ports.PropertySnapshot, error) {
	p, ok := s[id]
	if !ok {
		return ports.PropertySnapshot{}, apperr.NotFound("property not found")
	}
	return p, nil
}

type stubConstruction struct{}

func (stubConstruction) ListProjectBudgets(context.Context, uuid.UUID) ([]ports.ProjectBudget, error) {
	return nil, nil
}

type stubFinance struct{}

func (stubFinance) GetLifetimeStats(context.Context, uuid.UUID) (ports.CashflowStats, error) {
	return ports.CashflowStats{}, nil
}

type testServer struct {
	engine     *gin.Engine
	properties stubProperties
	user       uuid.UUID
}

func newTestServer(t *testing.T, authenticated bool) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ts := &testServer{properties: stubProperties{}, user: uuid.New()}
	svc := service.New(repository.NewMemoryStore(), ts.properties, stubConstruction{}, stubFinance{}, logger.Discard())

	ts.engine = gin.New()
	group := ts.engine.Group("/api/v1/sales")
	if authenticated {
		group.Use(func(c *gin.Context) {
			c.Set(httpkit.ContextUserIDKey, ts.user)
			c.Next()
		})
	}
	New(svc, validator.New()).RegisterRoutes(group)
	return ts
}

func (ts *testServer) addProperty() uuid.UUID {
	id := uuid.New()
	ts.properties[id] = ports.PropertySnapshot{ID: id, UserID: ts.user, PropertyType: "APARTMENT"}
	return id
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.engine.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestCreateProcessReturnsCreated(t *testing.T) {
	ts := newTestServer(t, true)
	propertyID := ts.addProperty()

	rec := ts.do(t, http.MethodPost, "/api/v1/sales/processes", map[string]any{
		"propertyId":  propertyID,
		"askingPrice": "240000",
	})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	res := decode[transport.ProcessResponse](t, rec)
	assert.Equal(t, "DRAFT", res.Status)
	assert.Equal(t, propertyID, res.PropertyID)

	rec = ts.do(t, http.MethodGet, "/api/v1/sales/processes/"+res.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, res.ID, decode[transport.ProcessResponse](t, rec).ID)
}

func TestCreateProcessValidation(t *testing.T) {
	ts := newTestServer(t, true)
	propertyID := ts.addProperty()

	cases := []struct {
		name string
		body any
		want string
	}{
		{"malformed body", "not an object", msgInvalidRequest},
		{"missing property", map[string]any{}, msgValidationFailed},
		{"negative asking price", map[string]any{"propertyId": propertyID, "askingPrice": "-1"}, msgValidationFailed},
		{"terminal initial status", map[string]any{"propertyId": propertyID, "status": "ACT_SIGNED"}, msgValidationFailed},
		{"bad listing date", map[string]any{"propertyId": propertyID, "listingDate": "12/03/2026"}, msgValidationFailed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodPost, "/api/v1/sales/processes", tc.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.want, decode[httpkit.ErrorResponse](t, rec).Error)
		})
	}
}

func TestCreateProcessRequiresIdentity(t *testing.T) {
	ts := newTestServer(t, false)
	propertyID := ts.addProperty()

	rec := ts.do(t, http.MethodPost, "/api/v1/sales/processes", map[string]any{"propertyId": propertyID})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSecondActiveProcessIsConflict(t *testing.T) {
	ts := newTestServer(t, true)
	propertyID := ts.addProperty()

	first := ts.do(t, http.MethodPost, "/api/v1/sales/processes", map[string]any{"propertyId": propertyID})
	require.Equal(t, http.StatusCreated, first.Code)

	second := ts.do(t, http.MethodPost, "/api/v1/sales/processes", map[string]any{"propertyId": propertyID})
	require.Equal(t, http.StatusConflict, second.Code)
	body := decode[httpkit.ErrorResponse](t, second)
	assert.Equal(t, "conflict", body.Kind)

	list := ts.do(t, http.MethodGet, "/api/v1/sales/properties/"+propertyID.String()+"/processes", nil)
	require.Equal(t, http.StatusOK, list.Code)
	assert.Len(t, decode[transport.ProcessListResponse](t, list).Items, 1)
}

func TestInvalidIDParam(t *testing.T) {
	ts := newTestServer(t, true)

	for _, path := range []string{
		"/api/v1/sales/processes/not-a-uuid",
		"/api/v1/sales/processes/42/offers",
		"/api/v1/sales/properties/abc/processes",
	} {
		rec := ts.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
		assert.Equal(t, msgInvalidID, decode[httpkit.ErrorResponse](t, rec).Error, path)
	}
}

func TestUnknownProcessIsNotFound(t *testing.T) {
	ts := newTestServer(t, true)

	rec := ts.do(t, http.MethodGet, "/api/v1/sales/processes/"+uuid.NewString(), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decode[httpkit.ErrorResponse](t, rec).Kind)
}

func TestPipelineOverHTTP(t *testing.T) {
	ts := newTestServer(t, true)
	propertyID := ts.addProperty()

	created := ts.do(t, http.MethodPost, "/api/v1/sales/processes", map[string]any{
		"propertyId": propertyID,
		"status":     "ON_MARKET",
	})
	require.Equal(t, http.StatusCreated, created.Code, created.Body.String())
	processID := decode[transport.ProcessResponse](t, created).ID
	base := "/api/v1/sales/processes/" + processID.String()

	prospect := ts.do(t, http.MethodPost, base+"/prospects", map[string]any{"lastName": "Martin"})
	require.Equal(t, http.StatusCreated, prospect.Code, prospect.Body.String())
	prospectID := decode[transport.ProspectResponse](t, prospect).ID

	early := ts.do(t, http.MethodPost, base+"/offers", map[string]any{"prospectId": prospectID, "offerAmount": "230000"})
	require.Equal(t, http.StatusConflict, early.Code)

	visit := ts.do(t, http.MethodPost, base+"/visits", map[string]any{
		"prospectId": prospectID,
		"visitDate":  "2026-05-18T10:00:00Z",
	})
	require.Equal(t, http.StatusCreated, visit.Code, visit.Body.String())

	offer := ts.do(t, http.MethodPost, base+"/offers", map[string]any{"prospectId": prospectID, "offerAmount": "230000"})
	require.Equal(t, http.StatusCreated, offer.Code, offer.Body.String())
	offerID := decode[transport.OfferResponse](t, offer).ID

	accepted := ts.do(t, http.MethodPatch, "/api/v1/sales/offers/"+offerID.String()+"/status", map[string]any{"status": "ACCEPTED"})
	require.Equal(t, http.StatusOK, accepted.Code, accepted.Body.String())
	res := decode[transport.OfferStatusResponse](t, accepted)
	assert.Equal(t, "ACCEPTED", res.Offer.Status)
	assert.Equal(t, "PROMESSE_SIGNED", res.Process.Status)

	transitions := ts.do(t, http.MethodGet, base+"/transitions", nil)
	require.Equal(t, http.StatusOK, transitions.Code)
	items := decode[transport.TransitionListResponse](t, transitions).Items
	require.NotEmpty(t, items)
	assert.Equal(t, "PROMESSE_SIGNED", items[len(items)-1].ToStatus)
}

func TestAbandonSignedProcessIsInvalidState(t *testing.T) {
	ts := newTestServer(t, true)
	propertyID := ts.addProperty()

	created := ts.do(t, http.MethodPost, "/api/v1/sales/processes", map[string]any{"propertyId": propertyID})
	require.Equal(t, http.StatusCreated, created.Code)
	base := "/api/v1/sales/processes/" + decode[transport.ProcessResponse](t, created).ID.String()

	signed := ts.do(t, http.MethodPut, base+"/status", map[string]any{"status": "ACT_SIGNED"})
	require.Equal(t, http.StatusOK, signed.Code, signed.Body.String())

	rec := ts.do(t, http.MethodPost, base+"/abandon", map[string]any{"reason": "buyer withdrew"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "invalid_state", decode[httpkit.ErrorResponse](t, rec).Kind)

	missing := ts.do(t, http.MethodPost, base+"/abandon", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, missing.Code)
}

func TestRecommendationEndpoint(t *testing.T) {
	ts := newTestServer(t, true)
	propertyID := ts.addProperty()

	created := ts.do(t, http.MethodPost, "/api/v1/sales/processes", map[string]any{"propertyId": propertyID, "status": "ON_MARKET"})
	require.Equal(t, http.StatusCreated, created.Code)
	base := "/api/v1/sales/processes/" + decode[transport.ProcessResponse](t, created).ID.String()

	rec := ts.do(t, http.MethodGet, base+"/recommendation", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[transport.RecommendationResponse](t, rec)
	assert.NotEmpty(t, res.Action)
	assert.Equal(t, 0, res.VisitCount)
}
