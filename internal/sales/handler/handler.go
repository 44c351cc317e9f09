package handler

import (
	"net/http"

	"immopilot_backend/internal/sales/service"
	"immopilot_backend/internal/sales/transport"
	"immopilot_backend/platform/httpkit"
	"immopilot_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid id"
)

// Handler handles HTTP requests for sale processes
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new sales handler
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the sales routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/processes", h.CreateProcess)
	rg.GET("/processes/:id", h.GetProcess)
	rg.PUT("/processes/:id/status", h.SetStatus)
	rg.POST("/processes/:id/abandon", h.AbandonProcess)
	rg.POST("/processes/:id/recompute", h.Recompute)
	rg.GET("/processes/:id/recommendation", h.Recommend)
	rg.GET("/processes/:id/transitions", h.ListTransitions)

	rg.POST("/processes/:id/prospects", h.AddProspect)
	rg.GET("/processes/:id/prospects", h.ListProspects)
	rg.POST("/processes/:id/visits", h.AddVisit)
	rg.GET("/processes/:id/visits", h.ListVisits)
	rg.POST("/processes/:id/offers", h.AddOffer)
	rg.GET("/processes/:id/offers", h.ListOffers)

	rg.PATCH("/offers/:offerId/status", h.UpdateOfferStatus)
	rg.GET("/properties/:propertyId/processes", h.ListProcessesByProperty)
}

// CreateProcess handles POST /api/v1/sales/processes
func (h *Handler) CreateProcess(c *gin.Context) {
	var req transport.CreateProcessRequest
	if !h.bind(c, &req) {
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.CreateProcess(c.Request.Context(), identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// GetProcess handles GET /api/v1/sales/processes/:id
func (h *Handler) GetProcess(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.svc.GetProcess(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListProcessesByProperty handles GET /api/v1/sales/properties/:propertyId/processes
func (h *Handler) ListProcessesByProperty(c *gin.Context) {
	propertyID, ok := parseUUIDParam(c, "propertyId")
	if !ok {
		return
	}

	result, err := h.svc.ListProcessesByProperty(c.Request.Context(), propertyID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// SetStatus handles PUT /api/v1/sales/processes/:id/status
func (h *Handler) SetStatus(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req transport.UpdateStatusRequest
	if !h.bind(c, &req) {
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.SetStatus(c.Request.Context(), identity.UserID(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// AbandonProcess handles POST /api/v1/sales/processes/:id/abandon
func (h *Handler) AbandonProcess(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req transport.AbandonProcessRequest
	if !h.bind(c, &req) {
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.AbandonProcess(c.Request.Context(), identity.UserID(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Recompute handles POST /api/v1/sales/processes/:id/recompute
func (h *Handler) Recompute(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.Recompute(c.Request.Context(), identity.UserID(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Recommend handles GET /api/v1/sales/processes/:id/recommendation
func (h *Handler) Recommend(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.svc.Recommend(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListTransitions handles GET /api/v1/sales/processes/:id/transitions
func (h *Handler) ListTransitions(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.svc.ListTransitions(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// AddProspect handles POST /api/v1/sales/processes/:id/prospects
func (h *Handler) AddProspect(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req transport.CreateProspectRequest
	if !h.bind(c, &req) {
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.AddProspect(c.Request.Context(), identity.UserID(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// ListProspects handles GET /api/v1/sales/processes/:id/prospects
func (h *Handler) ListProspects(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.svc.ListProspects(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// AddVisit handles POST /api/v1/sales/processes/:id/visits
func (h *Handler) AddVisit(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req transport.CreateVisitRequest
	if !h.bind(c, &req) {
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.AddVisit(c.Request.Context(), identity.UserID(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// ListVisits handles GET /api/v1/sales/processes/:id/visits
func (h *Handler) ListVisits(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.svc.ListVisits(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// AddOffer handles POST /api/v1/sales/processes/:id/offers
func (h *Handler) AddOffer(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req transport.CreateOfferRequest
	if !h.bind(c, &req) {
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.AddOffer(c.Request.Context(), identity.UserID(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// ListOffers handles GET /api/v1/sales/processes/:id/offers
func (h *Handler) ListOffers(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.svc.ListOffers(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// UpdateOfferStatus handles PATCH /api/v1/sales/offers/:offerId/status
func (h *Handler) UpdateOfferStatus(c *gin.Context) {
	offerID, ok := parseUUIDParam(c, "offerId")
	if !ok {
		return
	}
	var req transport.UpdateOfferStatusRequest
	if !h.bind(c, &req) {
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.UpdateOfferStatus(c.Request.Context(), identity.UserID(), offerID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return false
	}
	return true
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.UUID{}, false
	}
	return id, true
}
