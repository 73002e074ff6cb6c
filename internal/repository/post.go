// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"time"

	"blogicum/internal/cache"
	"blogicum/internal/models"

	"gorm.io/gorm"
)

// PostFilter narrows the staff listing of posts.
type PostFilter struct {
	Published  *bool
	TitleQuery string
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	ListVisible(ctx context.Context, limit, offset int) ([]*models.Post, int64, error)
	ListVisibleByCategory(ctx context.Context, categoryID uint, limit, offset int) ([]*models.Post, int64, error)
	ListByAuthor(ctx context.Context, authorID uint, visibleOnly bool, limit, offset int) ([]*models.Post, int64, error)
	ListAll(ctx context.Context, filter PostFilter, limit, offset int) ([]*models.Post, int64, error)
	Update(ctx context.Context, post *models.Post) error
	SetPublished(ctx context.Context, id uint, published bool) error
	Delete(ctx context.Context, id uint) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// Visible restricts a posts query to the publicly listable rows: the post is
// published, its category is published, and its pub date is not in the
// future. Every public listing and the detail access path go through this
// single scope.
func Visible(db *gorm.DB) *gorm.DB {
	return db.
		Joins("JOIN categories ON categories.id = posts.category_id").
		Where("posts.is_published = ? AND categories.is_published = ? AND posts.pub_date <= ?",
			true, true, time.Now().UTC())
}

// withCommentCounts annotates each row with the number of live comments.
func withCommentCounts(db *gorm.DB) *gorm.DB {
	return db.Select("posts.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id AND comments.deleted_at IS NULL) AS comments_count")
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).Create(post).Error
	if err == nil {
		cache.InvalidateHomeFeed(ctx)
	}
	return err
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := withCommentCounts(r.db.WithContext(ctx).Model(&models.Post{})).
		Preload("Author").
		Preload("Category").
		Preload("Location").
		First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// listPage runs the shared count-then-fetch pagination pattern. scope builds
// the WHERE portion on a fresh query; it is applied twice because a gorm
// query cannot be executed twice.
func (r *postRepository) listPage(ctx context.Context, scope func(*gorm.DB) *gorm.DB, limit, offset int) ([]*models.Post, int64, error) {
	base := func() *gorm.DB {
		return scope(r.db.WithContext(ctx).Model(&models.Post{}))
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []*models.Post
	err := withCommentCounts(base()).
		Preload("Author").
		Preload("Category").
		Preload("Location").
		Order("posts.pub_date DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *postRepository) ListVisible(ctx context.Context, limit, offset int) ([]*models.Post, int64, error) {
	return r.listPage(ctx, Visible, limit, offset)
}

func (r *postRepository) ListVisibleByCategory(ctx context.Context, categoryID uint, limit, offset int) ([]*models.Post, int64, error) {
	return r.listPage(ctx, func(db *gorm.DB) *gorm.DB {
		return Visible(db).Where("posts.category_id = ?", categoryID)
	}, limit, offset)
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID uint, visibleOnly bool, limit, offset int) ([]*models.Post, int64, error) {
	return r.listPage(ctx, func(db *gorm.DB) *gorm.DB {
		if visibleOnly {
			db = Visible(db)
		}
		return db.Where("posts.author_id = ?", authorID)
	}, limit, offset)
}

func (r *postRepository) ListAll(ctx context.Context, filter PostFilter, limit, offset int) ([]*models.Post, int64, error) {
	return r.listPage(ctx, func(db *gorm.DB) *gorm.DB {
		if filter.Published != nil {
			db = db.Where("posts.is_published = ?", *filter.Published)
		}
		if filter.TitleQuery != "" {
			db = db.Where("posts.title ILIKE ?", "%"+filter.TitleQuery+"%")
		}
		return db
	}, limit, offset)
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return err
	}
	cache.InvalidatePost(ctx, post.ID)
	return nil
}

func (r *postRepository) SetPublished(ctx context.Context, id uint, published bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		Update("is_published", published)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Comments disappear from the public surface with their post.
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
	if err != nil {
		return err
	}
	cache.InvalidatePost(ctx, id)
	return nil
}
