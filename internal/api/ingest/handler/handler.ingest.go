// Package ingesthdl chứa HTTP handler cho domain Ingest.
package ingesthdl

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	basehdl "planning_api/internal/api/base/handler"
	planningmodels "planning_api/internal/api/planning/models"
	"planning_api/internal/ingest"
)

// IngestHandler nhận payload từ các nguồn ngoài và đưa vào collection events.
type IngestHandler struct {
	ingestService *ingest.Service
}

// NewIngestHandler tạo mới IngestHandler
func NewIngestHandler() (*IngestHandler, error) {
	ingestService, err := ingest.NewService()
	if err != nil {
		return nil, fmt.Errorf("failed to create ingest service: %w", err)
	}
	return &IngestHandler{ingestService: ingestService}, nil
}

// handleFeed parse payload bằng parser của nguồn rồi apply.
func (h *IngestHandler) handleFeed(c fiber.Ctx, provider string, parse func([]byte) ([]planningmodels.Event, error)) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		items, err := parse(c.Body())
		if err != nil {
			return basehdl.JSONResponse(c, fiber.StatusBadRequest, fiber.Map{
				"status":  "error",
				"message": err.Error(),
			})
		}
		applied, err := h.ingestService.Apply(c.Context(), provider, items)
		if err != nil {
			return basehdl.JSONResponse(c, fiber.StatusInternalServerError, fiber.Map{
				"status":  "error",
				"message": err.Error(),
			})
		}
		return basehdl.JSONResponse(c, fiber.StatusOK, fiber.Map{
			"status":   "success",
			"provider": provider,
			"received": len(items),
			"applied":  len(applied),
			"data":     applied,
		})
	})
}

// HandleICS xử lý POST /ingest/ics (body: text/calendar).
func (h *IngestHandler) HandleICS(c fiber.Ctx) error {
	return h.handleFeed(c, ingest.ProviderICS, ingest.ParseICS)
}

// HandleNewsML xử lý POST /ingest/newsml (body: application/xml).
func (h *IngestHandler) HandleNewsML(c fiber.Ctx) error {
	return h.handleFeed(c, ingest.ProviderNewsML, ingest.ParseNewsML)
}

// HandleOnclusive xử lý POST /ingest/onclusive (body: application/json).
func (h *IngestHandler) HandleOnclusive(c fiber.Ctx) error {
	return h.handleFeed(c, ingest.ProviderOnclusive, ingest.ParseOnclusive)
}
