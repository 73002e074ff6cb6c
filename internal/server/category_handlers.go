// Package server contains the HTTP handlers for the blog API endpoints.
package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetCategories handles GET /api/categories
func (s *Server) GetCategories(c *fiber.Ctx) error {
	categories, err := s.categoryRepo.ListPublished(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(categories)
}

// GetCategoryPosts handles GET /api/categories/:slug/posts
func (s *Server) GetCategoryPosts(c *fiber.Ctx) error {
	slug := c.Params("slug")

	page, err := s.postService.CategoryFeed(c.Context(), slug, parsePage(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(page)
}
