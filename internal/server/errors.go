package server

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-blog/internal/views"
)

// StatusFor maps an error to the response status.
func StatusFor(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	switch {
	case goerrors.IsNotFound(err):
		return http.StatusNotFound
	case goerrors.IsValidation(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	status := StatusFor(err)
	log := s.logger.WithContext(c.UserContext())
	if status >= http.StatusInternalServerError {
		log.Error("server.request.failed", "path", c.Path(), "status", status, "error", err)
	} else {
		log.Debug("server.request.rejected", "path", c.Path(), "status", status, "error", err)
	}

	c.Response().ResetBody()
	page := views.ErrorPage{Site: s.cfg.Site, Status: status, Message: http.StatusText(status)}
	if renderErr := s.render(c, status, views.TemplateError, page); renderErr != nil {
		log.Error("server.error_page.failed", "error", renderErr)
		c.Response().ResetBody()
		return c.Status(status).SendString(http.StatusText(status))
	}
	return nil
}
