package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"ovozpay/internal/dto"
	"ovozpay/internal/models"
	"ovozpay/internal/service"
)

type SourceHandler struct {
	sourceService *service.SourceService
	logger        *zap.Logger
}

func NewSourceHandler(sourceService *service.SourceService, logger *zap.Logger) *SourceHandler {
	return &SourceHandler{
		sourceService: sourceService,
		logger:        logger,
	}
}

// Create godoc
// @Summary Create a traffic source
// @Tags sources
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSourceRequest true "Source"
// @Success 201 {object} dto.SourceResponse
// @Failure 409 {object} map[string]string
// @Router /api/v1/sources [post]
func (h *SourceHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateSourceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	source, err := h.sourceService.Create(c.Context(), service.CreateSourceInput{
		Name:        req.Name,
		Description: req.Description,
		UTMSource:   req.UTMSource,
		UTMMedium:   req.UTMMedium,
		UTMCampaign: req.UTMCampaign,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSourceExists):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Source already exists",
			})
		case errors.Is(err, service.ErrInvalidSource):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		default:
			h.logger.Error("Failed to create source", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to create source",
			})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(h.toResponse(c, source))
}

// List godoc
// @Summary List traffic sources
// @Tags sources
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.SourceResponse
// @Router /api/v1/sources [get]
func (h *SourceHandler) List(c *fiber.Ctx) error {
	sources, err := h.sourceService.List(c.Context())
	if err != nil {
		h.logger.Error("Failed to list sources", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list sources",
		})
	}

	resp := make([]dto.SourceResponse, 0, len(sources))
	for _, s := range sources {
		resp = append(resp, h.toResponse(c, s))
	}
	return c.JSON(resp)
}

// CreateDefaults godoc
// @Summary Seed the standard traffic sources
// @Tags sources
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.SourceResponse
// @Router /api/v1/sources/defaults [post]
func (h *SourceHandler) CreateDefaults(c *fiber.Ctx) error {
	created, err := h.sourceService.CreateDefaults(c.Context())
	if err != nil {
		h.logger.Error("Failed to seed sources", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to seed sources",
		})
	}

	resp := make([]dto.SourceResponse, 0, len(created))
	for _, s := range created {
		resp = append(resp, h.toResponse(c, s))
	}
	return c.JSON(resp)
}

// Delete godoc
// @Summary Delete a traffic source
// @Tags sources
// @Security BearerAuth
// @Param id path string true "Source ID"
// @Success 204
// @Router /api/v1/sources/{id} [delete]
func (h *SourceHandler) Delete(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.sourceService.Delete(c.Context(), id); err != nil {
		h.logger.Error("Failed to delete source", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete source",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *SourceHandler) toResponse(c *fiber.Ctx, s *models.Source) dto.SourceResponse {
	count, err := h.sourceService.CountUsers(c.Context(), s.ID)
	if err != nil {
		h.logger.Warn("Failed to count source users", zap.Error(err))
	}
	return dto.SourceResponse{
		ID:          s.ID.String(),
		Name:        s.Name,
		Description: s.Description,
		UTMSource:   s.UTMSource,
		UTMMedium:   s.UTMMedium,
		UTMCampaign: s.UTMCampaign,
		IsActive:    s.IsActive,
		UsersCount:  count,
		CreatedAt:   s.CreatedAt.Format(time.RFC3339),
	}
}
