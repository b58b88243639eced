package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

type requestRecorder interface {
	RecordRequest(method, route string, statusCode int, d time.Duration)
}

// MetricsMiddleware mide cada petición con el patrón de ruta como etiqueta, para no
// crear una serie por cada id.
func MetricsMiddleware(rec requestRecorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		if route == "" || route == "/" {
			route = "unmatched"
		}
		rec.RecordRequest(c.Method(), route, status, time.Since(start))
		return err
	}
}
