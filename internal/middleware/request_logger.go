package middleware

import (
	"log/slog"
	"time"

	"coffee-pos/pkg/logging"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// RequestLogger puts a request-scoped logger into the user context and logs
// every completed request. Must run after requestid.New().
func RequestLogger(base *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		reqID, _ := c.Locals(requestid.ConfigDefault.ContextKey).(string)
		l := base.With("request_id", reqID, "method", c.Method(), "path", c.Path())
		c.SetUserContext(logging.IntoContext(c.UserContext(), l))

		err := c.Next()
		if err != nil {
			// Let the app's error handler pick the status before logging it.
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		attrs := []any{"status", status, "duration_ms", time.Since(start).Milliseconds()}
		switch {
		case status >= fiber.StatusInternalServerError:
			l.Error("request completed", attrs...)
		case status >= fiber.StatusBadRequest:
			l.Warn("request completed", attrs...)
		default:
			l.Info("request completed", attrs...)
		}
		return nil
	}
}
