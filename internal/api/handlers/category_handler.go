package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"ovozpay/internal/dto"
	"ovozpay/internal/models"
	"ovozpay/internal/service"
)

type CategoryHandler struct {
	categoryService *service.CategoryService
	logger          *zap.Logger
}

func NewCategoryHandler(categoryService *service.CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		logger:          logger,
	}
}

// Create godoc
// @Summary Create a custom category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCategoryRequest true "Category"
// @Success 201 {object} dto.CategoryResponse
// @Failure 409 {object} map[string]string
// @Router /api/v1/categories [post]
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req dto.CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	category, err := h.categoryService.Create(c.Context(), userID, req.Name, models.CategoryType(req.Type), req.Emoji)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryExists):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Category already exists",
			})
		case errors.Is(err, service.ErrInvalidCategory), errors.Is(err, service.ErrCategoryNotFound):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		default:
			h.logger.Error("Failed to create category", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to create category",
			})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(toCategoryResponse(category))
}

// List godoc
// @Summary List available categories
// @Description Returns the user's custom categories plus the shared defaults
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.CategoryResponse
// @Router /api/v1/categories [get]
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	categories, err := h.categoryService.List(c.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list categories", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list categories",
		})
	}

	resp := make([]dto.CategoryResponse, 0, len(categories))
	for _, cat := range categories {
		resp = append(resp, toCategoryResponse(cat))
	}
	return c.JSON(resp)
}

// Delete godoc
// @Summary Delete a custom category
// @Tags categories
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Success 204
// @Router /api/v1/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.categoryService.Delete(c.Context(), userID, id); err != nil {
		h.logger.Error("Failed to delete category", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete category",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
