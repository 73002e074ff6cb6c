package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"blogicum/internal/cache"
	"blogicum/internal/models"
	"blogicum/internal/repository"

	"gorm.io/gorm"
)

const maxTitleLen = 256

// PostService owns post lifecycle rules: validation, the visibility policy
// and author-only mutation.
type PostService struct {
	postRepo     repository.PostRepository
	categoryRepo repository.CategoryRepository
	locationRepo repository.LocationRepository
	userRepo     repository.UserRepository
	pageSize     int
}

// NewPostService creates a new PostService with the configured page size.
func NewPostService(
	postRepo repository.PostRepository,
	categoryRepo repository.CategoryRepository,
	locationRepo repository.LocationRepository,
	userRepo repository.UserRepository,
	pageSize int,
) *PostService {
	return &PostService{
		postRepo:     postRepo,
		categoryRepo: categoryRepo,
		locationRepo: locationRepo,
		userRepo:     userRepo,
		pageSize:     pageSize,
	}
}

// CreatePostInput carries the fields a user may set when authoring a post.
// The author is always the current user, never taken from the payload.
type CreatePostInput struct {
	AuthorID    uint
	Title       string
	Text        string
	PubDate     time.Time
	IsPublished bool
	CategoryID  uint
	LocationID  *uint
}

// UpdatePostInput carries a partial update; empty/nil fields are left unchanged.
type UpdatePostInput struct {
	UserID        uint
	PostID        uint
	Title         string
	Text          string
	PubDate       *time.Time
	IsPublished   *bool
	CategoryID    uint
	LocationID    *uint
	ClearLocation bool
}

// PostPage is one page of a post listing.
type PostPage struct {
	Posts []*models.Post `json:"posts"`
	PageMeta
}

// ProfilePage bundles a user profile with one page of their posts.
type ProfilePage struct {
	Profile *models.User `json:"profile"`
	PostPage
}

// CategoryPage bundles a category with one page of its visible posts.
type CategoryPage struct {
	Category *models.Category `json:"category"`
	PostPage
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 256 characters)")
	}
	if strings.TrimSpace(in.Text) == "" {
		return nil, models.NewValidationError("Text is required")
	}
	if in.CategoryID == 0 {
		return nil, models.NewValidationError("Category is required")
	}
	if _, err := s.categoryRepo.GetByID(ctx, in.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewValidationError("Unknown category")
		}
		return nil, err
	}
	if in.LocationID != nil {
		if _, err := s.locationRepo.GetByID(ctx, *in.LocationID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NewValidationError("Unknown location")
			}
			return nil, err
		}
	}

	pubDate := in.PubDate
	if pubDate.IsZero() {
		pubDate = time.Now().UTC()
	}

	post := &models.Post{
		Title:       in.Title,
		Text:        in.Text,
		PubDate:     pubDate,
		IsPublished: in.IsPublished,
		AuthorID:    in.AuthorID,
		CategoryID:  in.CategoryID,
		LocationID:  in.LocationID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID)
}

// GetPost returns the post for detail rendering. A post outside the public
// visibility policy is reported as not found unless the requester is its
// author; existence of hidden posts is never revealed.
func (s *PostService) GetPost(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	var post models.Post
	err := cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
		fetched, err := s.postRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		post = *fetched
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("post", id)
		}
		return nil, err
	}

	if !post.VisibleAt(time.Now().UTC()) && post.AuthorID != currentUserID {
		return nil, models.NewNotFoundError("post", id)
	}
	return &post, nil
}

// HomeFeed returns one page of the public listing. The first page is served
// through the cache; it is the hottest read in the application.
func (s *PostService) HomeFeed(ctx context.Context, page int) (*PostPage, error) {
	page = normalizePage(page)

	if page == 1 {
		var cached PostPage
		err := cache.Aside(ctx, cache.HomeFeedKey, &cached, cache.HomeFeedTTL, func() error {
			fresh, err := s.visiblePage(ctx, page)
			if err != nil {
				return err
			}
			cached = *fresh
			return nil
		})
		if err != nil {
			return nil, err
		}
		return &cached, nil
	}

	return s.visiblePage(ctx, page)
}

func (s *PostService) visiblePage(ctx context.Context, page int) (*PostPage, error) {
	posts, total, err := s.postRepo.ListVisible(ctx, s.pageSize, (page-1)*s.pageSize)
	if err != nil {
		return nil, err
	}
	return &PostPage{Posts: posts, PageMeta: pageMeta(page, s.pageSize, total)}, nil
}

// CategoryFeed returns a published category and one page of its visible
// posts. A missing or unpublished category is not found.
func (s *PostService) CategoryFeed(ctx context.Context, slug string, page int) (*CategoryPage, error) {
	category, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("category", slug)
		}
		return nil, err
	}
	if !category.IsPublished {
		return nil, models.NewNotFoundError("category", slug)
	}

	page = normalizePage(page)
	posts, total, err := s.postRepo.ListVisibleByCategory(ctx, category.ID, s.pageSize, (page-1)*s.pageSize)
	if err != nil {
		return nil, err
	}

	return &CategoryPage{
		Category: category,
		PostPage: PostPage{Posts: posts, PageMeta: pageMeta(page, s.pageSize, total)},
	}, nil
}

// ProfileFeed returns a user's profile with one page of their posts. The
// profile owner sees all their posts including scheduled and unpublished
// ones; every other requester sees only publicly visible posts.
func (s *PostService) ProfileFeed(ctx context.Context, username string, currentUserID uint, page int) (*ProfilePage, error) {
	profile, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("profile", username)
		}
		return nil, err
	}

	page = normalizePage(page)
	visibleOnly := profile.ID != currentUserID
	posts, total, err := s.postRepo.ListByAuthor(ctx, profile.ID, visibleOnly, s.pageSize, (page-1)*s.pageSize)
	if err != nil {
		return nil, err
	}

	return &ProfilePage{
		Profile:  profile,
		PostPage: PostPage{Posts: posts, PageMeta: pageMeta(page, s.pageSize, total)},
	}, nil
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("post", in.PostID)
		}
		return nil, err
	}

	if post.AuthorID != in.UserID {
		return nil, models.NewForbiddenError("You can only edit your own posts")
	}

	if in.Title != "" {
		if len(in.Title) > maxTitleLen {
			return nil, models.NewValidationError("Title too long (max 256 characters)")
		}
		post.Title = in.Title
	}
	if in.Text != "" {
		post.Text = in.Text
	}
	if in.PubDate != nil {
		post.PubDate = *in.PubDate
	}
	if in.IsPublished != nil {
		post.IsPublished = *in.IsPublished
	}
	if in.CategoryID != 0 && in.CategoryID != post.CategoryID {
		if _, err := s.categoryRepo.GetByID(ctx, in.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NewValidationError("Unknown category")
			}
			return nil, err
		}
		post.CategoryID = in.CategoryID
	}
	switch {
	case in.ClearLocation:
		post.LocationID = nil
		post.Location = nil
	case in.LocationID != nil:
		if _, err := s.locationRepo.GetByID(ctx, *in.LocationID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NewValidationError("Unknown location")
			}
			return nil, err
		}
		post.LocationID = in.LocationID
	}

	// Drop loaded associations so Save does not upsert stale ones.
	post.Author = models.User{}
	post.Category = models.Category{}
	post.Location = nil
	post.Comments = nil

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// DeletePost removes a post after an author-only ownership check. Staff
// removals go through the management surface, not here.
func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("post", postID)
		}
		return err
	}

	if post.AuthorID != userID {
		return models.NewForbiddenError("You can only delete your own posts")
	}

	return s.postRepo.Delete(ctx, postID)
}
