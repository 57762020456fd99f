package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/salescope/lead-insights/internal/dto"
	"github.com/salescope/lead-insights/internal/entity"
	"github.com/salescope/lead-insights/internal/service"
)

// LeadsHandler exposes lead CRUD and analysis-trigger endpoints.
type LeadsHandler struct {
	service *service.LeadsService
}

// NewLeadsHandler creates a new handler instance.
func NewLeadsHandler(service *service.LeadsService) *LeadsHandler {
	return &LeadsHandler{service: service}
}

// Create handles POST /leads. Analysis is scheduled in the background when
// manual content accompanies the payload; the response never waits for it.
func (h *LeadsHandler) Create(c echo.Context) error {
	var payload dto.LeadCreateRequest
	if err := c.Bind(&payload); err != nil {
		return Error(c, http.StatusBadRequest, "invalid JSON payload")
	}

	lead, _, err := h.service.CreateLead(c.Request().Context(), payload)
	if err != nil {
		if errors.Is(err, service.ErrCompanyNameRequired) {
			return Error(c, http.StatusUnprocessableEntity, "company_name is required")
		}
		return Error(c, http.StatusInternalServerError, "failed to create lead")
	}

	return c.JSON(http.StatusOK, lead)
}

// List handles GET /leads, newest first.
func (h *LeadsHandler) List(c echo.Context) error {
	leads, err := h.service.ListLeads(c.Request().Context())
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list leads")
	}
	if leads == nil {
		leads = []entity.Lead{}
	}
	return c.JSON(http.StatusOK, leads)
}

// Get handles GET /leads/:id.
func (h *LeadsHandler) Get(c echo.Context) error {
	lead, err := h.service.GetLead(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrLeadNotFound) {
			return Error(c, http.StatusNotFound, "Lead not found")
		}
		return Error(c, http.StatusInternalServerError, "failed to fetch lead")
	}
	return c.JSON(http.StatusOK, lead)
}

// Update handles PUT /leads/:id, replacing the descriptive fields only.
func (h *LeadsHandler) Update(c echo.Context) error {
	var payload dto.LeadCreateRequest
	if err := c.Bind(&payload); err != nil {
		return Error(c, http.StatusBadRequest, "invalid JSON payload")
	}

	lead, err := h.service.UpdateLead(c.Request().Context(), c.Param("id"), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCompanyNameRequired):
			return Error(c, http.StatusUnprocessableEntity, "company_name is required")
		case errors.Is(err, service.ErrLeadNotFound):
			return Error(c, http.StatusNotFound, "Lead not found")
		default:
			return Error(c, http.StatusInternalServerError, "failed to update lead")
		}
	}

	return c.JSON(http.StatusOK, lead)
}

// Delete handles DELETE /leads/:id. Deleting an unknown id reports not-found.
func (h *LeadsHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteLead(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrLeadNotFound) {
			return Error(c, http.StatusNotFound, "Lead not found")
		}
		return Error(c, http.StatusInternalServerError, "failed to delete lead")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Lead deleted successfully"})
}

// Analyze handles POST /leads/:id/analyze. The run is scheduled and the
// response returns immediately; progress is observed by polling the lead.
func (h *LeadsHandler) Analyze(c echo.Context) error {
	content := c.QueryParam("content")

	_, err := h.service.TriggerAnalysis(c.Request().Context(), c.Param("id"), content)
	if err != nil {
		if errors.Is(err, service.ErrLeadNotFound) {
			return Error(c, http.StatusNotFound, "Lead not found")
		}
		return Error(c, http.StatusInternalServerError, "failed to start analysis")
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Analysis started"})
}

// Stats handles GET /leads/stats/summary.
func (h *LeadsHandler) Stats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to compute stats")
	}
	return c.JSON(http.StatusOK, stats)
}
