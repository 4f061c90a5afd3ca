package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/goliatone/go-blog/internal/logging"
)

// HeaderRequestID carries the id assigned to every request.
const HeaderRequestID = "X-Request-ID"

func (s *Server) requestContext(c *fiber.Ctx) error {
	id := c.Get(HeaderRequestID)
	if id == "" {
		id = uuid.NewString()
	}
	c.Set(HeaderRequestID, id)
	c.SetUserContext(logging.ContextWithFields(c.UserContext(), map[string]any{
		"request_id": id,
	}))

	start := time.Now()
	err := c.Next()
	s.logger.WithContext(c.UserContext()).Debug("server.request",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"elapsed", time.Since(start),
	)
	return err
}
