package handler

import (
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"spotisheet/internal/service"
)

// AuthHandler handles the Spotify login endpoints.
type AuthHandler struct {
	authService *service.AuthService
	frontendURL string
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService *service.AuthService, frontendURL string) *AuthHandler {
	return &AuthHandler{authService: authService, frontendURL: frontendURL}
}

// Register sets up auth routes.
func (h *AuthHandler) Register(app *fiber.App) {
	app.Get("/api/v1/auth/spotify/login", h.Login)
	app.Get("/auth/callback", h.Callback)
}

// Login redirects to the Spotify consent screen.
func (h *AuthHandler) Login(c fiber.Ctx) error {
	state := uuid.NewString()
	return c.Redirect().To(h.authService.AuthURL(state))
}

// Callback handles the OAuth2 callback from Spotify.
func (h *AuthHandler) Callback(c fiber.Ctx) error {
	code := c.Query("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing authorization code",
		})
	}

	jwt, user, err := h.authService.HandleCallback(c.Context(), code)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	redirectURL := h.frontendURL + "/auth/callback?token=" + jwt + "&name=" + user.DisplayName
	return c.Redirect().To(redirectURL)
}
