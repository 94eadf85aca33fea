package middleware

import (
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"

	"spotisheet/internal/domain"
)

// AuditWriter defines how audit records are persisted.
type AuditWriter interface {
	WriteAudit(userID, action, resource, resourceID, details, ip, userAgent string) error
}

// AuditMiddleware records export activity for every request. Health checks
// are skipped; everything else is written asynchronously so a slow audit
// insert never delays a download.
func AuditMiddleware(writer AuditWriter) fiber.Handler {
	return func(c fiber.Ctx) error {
		path := c.Path()
		if path == "/api/v1/health" {
			return c.Next()
		}

		start := time.Now()

		// Capture request data before handler execution; Fiber reuses
		// context objects.
		method := c.Method()
		ip := c.IP()
		userAgent := c.Get("User-Agent")

		err := c.Next()

		userID := "anonymous"
		if uc := GetUserContext(c); uc != nil {
			userID = uc.UserID
		}

		details := map[string]interface{}{
			"method":      method,
			"path":        path,
			"status":      c.Response().StatusCode(),
			"bytes":       len(c.Response().Body()),
			"duration_ms": time.Since(start).Milliseconds(),
		}
		detailsJSON, _ := json.Marshal(details)
		action := auditAction(path)

		go func() {
			if writeErr := writer.WriteAudit(
				userID,
				action,
				"api",
				path,
				string(detailsJSON),
				ip,
				userAgent,
			); writeErr != nil {
				slog.Error("failed to write audit log", "error", writeErr)
			}
		}()

		return err
	}
}

func auditAction(path string) string {
	switch {
	case strings.HasSuffix(path, "/playlist"):
		return domain.AuditActionExport
	case strings.HasSuffix(path, "/verify-permission"):
		return domain.AuditActionPermissionVerify
	case strings.Contains(path, "/auth/"):
		return domain.AuditActionLogin
	default:
		return "http_request"
	}
}
