// Package server contains the HTTP handlers for the blog API endpoints.
package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetProfile handles GET /api/profiles/:username
// Returns the public profile with a page of their posts. Profile owners see
// their full post history; everyone else sees published posts only.
func (s *Server) GetProfile(c *fiber.Ctx) error {
	username := c.Params("username")

	page, err := s.postService.ProfileFeed(c.Context(), username, optionalUserID(c), parsePage(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(page)
}

// GetProfilePosts handles GET /api/profiles/:username/posts
func (s *Server) GetProfilePosts(c *fiber.Ctx) error {
	username := c.Params("username")

	page, err := s.postService.ProfileFeed(c.Context(), username, optionalUserID(c), parsePage(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(page.PostPage)
}
