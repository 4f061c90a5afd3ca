package server

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-blog/internal/feeds"
	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/internal/views"
)

func (s *Server) listPosts(c *fiber.Ctx) error {
	items, err := s.deps.Posts.List(c.UserContext())
	if err != nil {
		return err
	}
	var path views.PathFunc
	if s.deps.URLs != nil {
		path = s.deps.URLs.PostPath
	}
	page, err := views.NewListPage(s.cfg.Site, items, path)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "build listing").
			WithTextCode("LISTING_FAILED")
	}
	return s.render(c, http.StatusOK, views.TemplateHome, page)
}

func (s *Server) showPost(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if !posts.IsValidSlug(slug) {
		return c.Next()
	}

	post, err := s.deps.Posts.Get(c.UserContext(), slug)
	if err != nil {
		return err
	}

	body, err := s.deps.Markdown.RenderWithOptions(post.Contents, s.cfg.Render)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "render post").
			WithTextCode("POST_RENDER_FAILED").
			WithMetadata(map[string]any{"slug": slug})
	}

	var absolute string
	if s.deps.URLs != nil {
		if absolute, err = s.deps.URLs.PostURL(slug); err != nil {
			s.logger.WithContext(c.UserContext()).Warn("server.post.url_failed", "slug", slug, "error", err)
		}
	}

	page := views.NewPostPage(s.cfg.Site, post, string(body), absolute)
	return s.render(c, http.StatusOK, views.TemplatePost, page)
}

func (s *Server) feed(format string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		doc, err := s.deps.Feeds.Render(c.UserContext(), format)
		if err != nil {
			return err
		}
		contentType, err := feeds.ContentType(format)
		if err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, contentType)
		return c.SendString(doc)
	}
}

func (s *Server) stylesheet(c *fiber.Ctx) error {
	c.Type("css", "utf-8")
	c.Set(fiber.HeaderCacheControl, "public, max-age=3600")
	return c.Send(views.Stylesheet())
}

func (s *Server) render(c *fiber.Ctx, status int, name string, data any) error {
	c.Status(status)
	c.Type("html", "utf-8")
	_, err := s.deps.Views.RenderTemplate(name, data, c)
	return err
}
