package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v3"

	"spotisheet/internal/middleware"
	"spotisheet/internal/port"
	"spotisheet/internal/service"
)

const contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Exporter is the slice of the export service the handler uses.
type Exporter interface {
	Export(ctx context.Context, userID string, target service.ExportTarget) (*service.ExportResult, error)
	VerifyPermission(ctx context.Context, userID string) error
}

// ExportHandler handles the playlist export and permission probe endpoints.
type ExportHandler struct {
	exporter Exporter
}

// NewExportHandler creates a new export handler.
func NewExportHandler(exporter Exporter) *ExportHandler {
	return &ExportHandler{exporter: exporter}
}

// Register sets up export routes on an authenticated router group.
func (h *ExportHandler) Register(router fiber.Router) {
	router.Get("/playlist", h.Export)
	router.Post("/verify-permission", h.VerifyPermission)
}

// Export streams the xlsx workbook for the selected account.
// Query parameters: value=own|other, spotifyId (consulted for value=other).
func (h *ExportHandler) Export(c fiber.Ctx) error {
	uc := middleware.GetUserContext(c)
	if uc == nil {
		return errorResponse(c, port.ErrSession)
	}

	value := c.Query("value")
	if value != "own" && value != "other" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "There was a problem defining the account owner type.",
		})
	}

	result, err := h.exporter.Export(c.Context(), uc.UserID, service.ExportTarget{
		Own:       value == "own",
		SpotifyID: c.Query("spotifyId"),
	})
	if err != nil {
		return errorResponse(c, err)
	}

	c.Set(fiber.HeaderContentType, contentTypeXLSX)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename=`+result.Filename)
	return c.Send(result.Data)
}

// VerifyPermission pre-flights the Spotify API permission for the session's
// account, so the UI can gate third-party exports before offering them.
func (h *ExportHandler) VerifyPermission(c fiber.Ctx) error {
	uc := middleware.GetUserContext(c)
	if uc == nil {
		return errorResponse(c, port.ErrSession)
	}

	if err := h.exporter.VerifyPermission(c.Context(), uc.UserID); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"message": "Spotify account verified."})
}

// errorResponse maps pipeline failures onto the error shape the UI expects.
// Forbidden and not-found outcomes carry errorDetails so the caller can
// render a policy message instead of a plain input-validation error.
func errorResponse(c fiber.Ctx, err error) error {
	status := fiber.StatusBadRequest
	switch {
	case errors.Is(err, port.ErrForbidden):
		return c.Status(status).JSON(fiber.Map{
			"error": "There was a problem with the account.",
			"errorDetails": fiber.Map{
				"message": "This account is not allowed to query other Spotify accounts.",
				"type":    "forbidden",
			},
		})
	case errors.Is(err, port.ErrNotFound):
		return c.Status(status).JSON(fiber.Map{
			"error": "There was a problem with the account.",
			"errorDetails": fiber.Map{
				"message": "Invalid spotify id.",
				"type":    "input",
			},
		})
	case errors.Is(err, port.ErrSession):
		return c.Status(status).JSON(fiber.Map{"error": "There was a problem with the session."})
	case errors.Is(err, port.ErrAccountState):
		return c.Status(status).JSON(fiber.Map{"error": "There was a problem with the account."})
	default:
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
}
