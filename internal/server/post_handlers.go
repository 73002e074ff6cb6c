// Package server contains the HTTP handlers for the blog API endpoints.
package server

import (
	"time"

	"blogicum/internal/models"
	"blogicum/internal/observability"
	"blogicum/internal/service"

	"github.com/gofiber/fiber/v2"
)

// postRequest is the JSON payload for creating and updating posts.
type postRequest struct {
	Title       string     `json:"title"`
	Text        string     `json:"text"`
	PubDate     *time.Time `json:"pub_date"`
	IsPublished *bool      `json:"is_published"`
	CategoryID  uint       `json:"category_id"`
	LocationID  *uint      `json:"location_id"`
	// ClearLocation detaches the post from its location on update; a null
	// location_id alone is indistinguishable from an omitted field.
	ClearLocation bool `json:"clear_location"`
}

// GetPosts handles GET /api/posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	page, err := s.postService.HomeFeed(c.Context(), parsePage(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(page)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.Context(), id, optionalUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	// The detail view carries the comment thread inline, oldest first.
	comments, err := s.commentRepo.ListByPost(c.Context(), post.ID)
	if err != nil {
		return respondServiceError(c, err)
	}
	post.Comments = make([]models.Comment, 0, len(comments))
	for _, comment := range comments {
		post.Comments = append(post.Comments, *comment)
	}

	return c.JSON(post)
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	in := service.CreatePostInput{
		AuthorID:    userID,
		Title:       req.Title,
		Text:        req.Text,
		IsPublished: true,
		CategoryID:  req.CategoryID,
		LocationID:  req.LocationID,
	}
	if req.PubDate != nil {
		in.PubDate = *req.PubDate
	}
	if req.IsPublished != nil {
		in.IsPublished = *req.IsPublished
	}

	post, err := s.postService.CreatePost(c.Context(), in)
	if err != nil {
		return respondServiceError(c, err)
	}

	observability.PostsCreated.Inc()

	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req postRequest
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	in := service.UpdatePostInput{
		UserID:        userID,
		PostID:        postID,
		Title:         req.Title,
		Text:          req.Text,
		PubDate:       req.PubDate,
		IsPublished:   req.IsPublished,
		CategoryID:    req.CategoryID,
		LocationID:    req.LocationID,
		ClearLocation: req.ClearLocation,
	}

	post, err := s.postService.UpdatePost(c.Context(), in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.Context(), userID, postID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
