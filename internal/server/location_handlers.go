// Package server contains the HTTP handlers for the blog API endpoints.
package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetLocations handles GET /api/locations
func (s *Server) GetLocations(c *fiber.Ctx) error {
	locations, err := s.locationRepo.ListPublished(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(locations)
}
