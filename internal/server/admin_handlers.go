// Package server contains the HTTP handlers for the blog API endpoints.
package server

import (
	"errors"

	"blogicum/internal/models"
	"blogicum/internal/repository"
	"blogicum/internal/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminListPosts handles GET /api/admin/posts
// Staff see every post regardless of publication state. Supports
// ?published=true|false and ?q=<title substring> filters.
func (s *Server) AdminListPosts(c *fiber.Ctx) error {
	ctx := c.Context()

	var filter repository.PostFilter
	if raw := c.Query("published"); raw != "" {
		published := raw == "true"
		filter.Published = &published
	}
	filter.TitleQuery = c.Query("q")

	page := parsePage(c)
	size := s.config.PageSize
	offset := (page - 1) * size

	posts, total, err := s.postRepo.ListAll(ctx, filter, size, offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"posts":       posts,
		"page":        page,
		"page_size":   size,
		"total_items": total,
	})
}

// AdminPublishPost handles PATCH /api/admin/posts/:id/publish
func (s *Server) AdminPublishPost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		IsPublished bool `json:"is_published"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.postRepo.SetPublished(c.Context(), postID, req.IsPublished); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("post", postID))
		}
		return respondServiceError(c, err)
	}

	post, err := s.postRepo.GetByID(c.Context(), postID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// AdminListCategories handles GET /api/admin/categories
// Staff see unpublished categories too.
func (s *Server) AdminListCategories(c *fiber.Ctx) error {
	categories, err := s.categoryRepo.List(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(categories)
}

// AdminCreateCategory handles POST /api/admin/categories
func (s *Server) AdminCreateCategory(c *fiber.Ctx) error {
	var req struct {
		Title       string `json:"title"`
		Slug        string `json:"slug"`
		Description string `json:"description"`
		IsPublished *bool  `json:"is_published"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Title == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Title is required"))
	}
	if req.Slug == "" {
		req.Slug = validation.Slugify(req.Title)
	}
	if err := validation.ValidateSlug(req.Slug); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	category := &models.Category{
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
		IsPublished: true,
	}
	if req.IsPublished != nil {
		category.IsPublished = *req.IsPublished
	}

	if err := s.categoryRepo.Create(c.Context(), category); err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// AdminUpdateCategory handles PUT /api/admin/categories/:id
func (s *Server) AdminUpdateCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title       string  `json:"title"`
		Slug        string  `json:"slug"`
		Description *string `json:"description"`
		IsPublished *bool   `json:"is_published"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	category, err := s.categoryRepo.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("category", id))
		}
		return respondServiceError(c, err)
	}

	if req.Title != "" {
		category.Title = req.Title
	}
	if req.Slug != "" {
		if slugErr := validation.ValidateSlug(req.Slug); slugErr != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError(slugErr.Error()))
		}
		category.Slug = req.Slug
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.IsPublished != nil {
		category.IsPublished = *req.IsPublished
	}

	if err := s.categoryRepo.Update(c.Context(), category); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(category)
}

// AdminDeleteCategory handles DELETE /api/admin/categories/:id
func (s *Server) AdminDeleteCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.categoryRepo.Delete(c.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("category", id))
		}
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AdminListLocations handles GET /api/admin/locations
func (s *Server) AdminListLocations(c *fiber.Ctx) error {
	locations, err := s.locationRepo.List(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(locations)
}

// AdminCreateLocation handles POST /api/admin/locations
func (s *Server) AdminCreateLocation(c *fiber.Ctx) error {
	var req struct {
		Name        string `json:"name"`
		IsPublished *bool  `json:"is_published"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Name == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Name is required"))
	}

	location := &models.Location{
		Name:        req.Name,
		IsPublished: true,
	}
	if req.IsPublished != nil {
		location.IsPublished = *req.IsPublished
	}

	if err := s.locationRepo.Create(c.Context(), location); err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(location)
}

// AdminUpdateLocation handles PUT /api/admin/locations/:id
func (s *Server) AdminUpdateLocation(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Name        string `json:"name"`
		IsPublished *bool  `json:"is_published"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	location, err := s.locationRepo.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("location", id))
		}
		return respondServiceError(c, err)
	}

	if req.Name != "" {
		location.Name = req.Name
	}
	if req.IsPublished != nil {
		location.IsPublished = *req.IsPublished
	}

	if err := s.locationRepo.Update(c.Context(), location); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(location)
}

// AdminDeleteLocation handles DELETE /api/admin/locations/:id
func (s *Server) AdminDeleteLocation(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.locationRepo.Delete(c.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("location", id))
		}
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
