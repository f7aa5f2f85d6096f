// Package handler exposes the lead capture and pipeline HTTP endpoints.
package handler

import (
	"net/http"

	"estateleads_backend/internal/leads/service"
	"estateleads_backend/internal/leads/transport"
	"estateleads_backend/platform/httpkit"
	"estateleads_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles lead HTTP requests.
type Handler struct {
	service *service.Service
	val     *validator.Validator
}

// NewHandler creates a new leads handler.
func NewHandler(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{service: svc, val: val}
}

// HandleCaptureLead captures a landing form submission.
// POST /leads
func (h *Handler) HandleCaptureLead(c *gin.Context) {
	var payload transport.LeadFormPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	payload.Normalize()
	if err := payload.Validate(h.val); err != nil {
		httpkit.HandleError(c, err)
		return
	}

	resp, err := h.service.CaptureFormLead(c.Request.Context(), payload)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, resp)
}

// HandleListLeads returns recent leads, newest first.
// GET /leads
func (h *Handler) HandleListLeads(c *gin.Context) {
	resp, err := h.service.ListLeads(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// HandleGetLead returns one lead with its audit trail.
// GET /leads/:id
func (h *Handler) HandleGetLead(c *gin.Context) {
	id, ok := h.leadID(c)
	if !ok {
		return
	}

	resp, err := h.service.GetLead(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// HandleUpdateStage moves a lead through the pipeline.
// POST /leads/:id/stage
func (h *Handler) HandleUpdateStage(c *gin.Context) {
	id, ok := h.leadID(c)
	if !ok {
		return
	}

	var req transport.UpdateStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, transport.ValidationError(err))
		return
	}

	resp, err := h.service.AdvanceStage(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// HandleDeleteLead removes a lead and its audit trail.
// DELETE /leads/:id
func (h *Handler) HandleDeleteLead(c *gin.Context) {
	id, ok := h.leadID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteLead(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"ok": true})
}

func (h *Handler) leadID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "Invalid lead id")
		return uuid.Nil, false
	}
	return id, true
}
