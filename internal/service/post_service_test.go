package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"blogicum/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newPostService(postRepo *postRepoStub, categoryRepo *categoryRepoStub, locationRepo *locationRepoStub, userRepo *userRepoStub) *PostService {
	return NewPostService(postRepo, categoryRepo, locationRepo, userRepo, 10)
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}

func TestPostService_CreatePost_Validation(t *testing.T) {
	svc := newPostService(noopPostRepo(), noopCategoryRepo(), noopLocationRepo(), noopUserRepo())
	ctx := context.Background()

	tests := []struct {
		name string
		in   CreatePostInput
	}{
		{"Empty Title", CreatePostInput{AuthorID: 1, Text: "body", CategoryID: 1}},
		{"Blank Title", CreatePostInput{AuthorID: 1, Title: "   ", Text: "body", CategoryID: 1}},
		{"Empty Text", CreatePostInput{AuthorID: 1, Title: "Hello", CategoryID: 1}},
		{"No Category", CreatePostInput{AuthorID: 1, Title: "Hello", Text: "body"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreatePost(ctx, tt.in)
			assertAppErrorCode(t, err, "VALIDATION_ERROR")
		})
	}
}

func TestPostService_CreatePost_UnknownCategory(t *testing.T) {
	categoryRepo := noopCategoryRepo()
	categoryRepo.getByIDFn = func(_ context.Context, _ uint) (*models.Category, error) {
		return nil, gorm.ErrRecordNotFound
	}
	svc := newPostService(noopPostRepo(), categoryRepo, noopLocationRepo(), noopUserRepo())

	_, err := svc.CreatePost(context.Background(), CreatePostInput{
		AuthorID: 1, Title: "Hello", Text: "body", CategoryID: 99,
	})
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

func TestPostService_CreatePost_DefaultsPubDate(t *testing.T) {
	var created *models.Post
	postRepo := noopPostRepo()
	postRepo.createFn = func(_ context.Context, post *models.Post) error {
		post.ID = 1
		created = post
		return nil
	}
	svc := newPostService(postRepo, noopCategoryRepo(), noopLocationRepo(), noopUserRepo())

	before := time.Now().UTC()
	_, err := svc.CreatePost(context.Background(), CreatePostInput{
		AuthorID: 1, Title: "Hello", Text: "body", CategoryID: 1, IsPublished: true,
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.False(t, created.PubDate.Before(before))
	assert.Equal(t, uint(1), created.AuthorID)
}

func TestPostService_CreatePost_FuturePubDateAllowed(t *testing.T) {
	// Scheduling a post in the future is legal; it only stays out of the
	// public listings until the date passes.
	future := time.Now().UTC().Add(48 * time.Hour)
	var created *models.Post
	postRepo := noopPostRepo()
	postRepo.createFn = func(_ context.Context, post *models.Post) error {
		post.ID = 1
		created = post
		return nil
	}
	svc := newPostService(postRepo, noopCategoryRepo(), noopLocationRepo(), noopUserRepo())

	_, err := svc.CreatePost(context.Background(), CreatePostInput{
		AuthorID: 1, Title: "Later", Text: "body", CategoryID: 1, PubDate: future, IsPublished: true,
	})
	require.NoError(t, err)
	assert.Equal(t, future, created.PubDate)
}

func TestPostService_GetPost_Visibility(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name          string
		post          models.Post
		currentUserID uint
		wantNotFound  bool
	}{
		{
			name: "Visible Post Anonymous",
			post: models.Post{
				ID: 1, AuthorID: 5, IsPublished: true, PubDate: now.Add(-time.Hour),
				Category: models.Category{IsPublished: true},
			},
		},
		{
			name: "Unpublished Post Hidden From Others",
			post: models.Post{
				ID: 1, AuthorID: 5, IsPublished: false, PubDate: now.Add(-time.Hour),
				Category: models.Category{IsPublished: true},
			},
			currentUserID: 7,
			wantNotFound:  true,
		},
		{
			name: "Unpublished Post Shown To Author",
			post: models.Post{
				ID: 1, AuthorID: 5, IsPublished: false, PubDate: now.Add(-time.Hour),
				Category: models.Category{IsPublished: true},
			},
			currentUserID: 5,
		},
		{
			name: "Future Post Hidden From Others",
			post: models.Post{
				ID: 1, AuthorID: 5, IsPublished: true, PubDate: now.Add(time.Hour),
				Category: models.Category{IsPublished: true},
			},
			currentUserID: 7,
			wantNotFound:  true,
		},
		{
			name: "Unpublished Category Hides Post",
			post: models.Post{
				ID: 1, AuthorID: 5, IsPublished: true, PubDate: now.Add(-time.Hour),
				Category: models.Category{IsPublished: false},
			},
			currentUserID: 7,
			wantNotFound:  true,
		},
		{
			name: "Author Sees Post Under Unpublished Category",
			post: models.Post{
				ID: 1, AuthorID: 5, IsPublished: true, PubDate: now.Add(-time.Hour),
				Category: models.Category{IsPublished: false},
			},
			currentUserID: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			postRepo := noopPostRepo()
			post := tt.post
			postRepo.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) {
				return &post, nil
			}
			svc := newPostService(postRepo, noopCategoryRepo(), noopLocationRepo(), noopUserRepo())

			got, err := svc.GetPost(context.Background(), 1, tt.currentUserID)
			if tt.wantNotFound {
				assertAppErrorCode(t, err, "NOT_FOUND")
			} else {
				require.NoError(t, err)
				assert.Equal(t, uint(1), got.ID)
			}
		})
	}
}

func TestPostService_GetPost_Missing(t *testing.T) {
	postRepo := noopPostRepo()
	postRepo.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) {
		return nil, gorm.ErrRecordNotFound
	}
	svc := newPostService(postRepo, noopCategoryRepo(), noopLocationRepo(), noopUserRepo())

	_, err := svc.GetPost(context.Background(), 42, 0)
	assertAppErrorCode(t, err, "NOT_FOUND")
}

func TestPostService_HomeFeed_Pagination(t *testing.T) {
	var gotLimit, gotOffset int
	postRepo := noopPostRepo()
	postRepo.listVisibleFn = func(_ context.Context, limit, offset int) ([]*models.Post, int64, error) {
		gotLimit, gotOffset = limit, offset
		return []*models.Post{{ID: 1}}, 25, nil
	}
	svc := newPostService(postRepo, noopCategoryRepo(), noopLocationRepo(), noopUserRepo())

	page, err := svc.HomeFeed(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 10, gotLimit)
	assert.Equal(t, 20, gotOffset)
	assert.Equal(t, 3, page.Page)
	assert.Equal(t, int64(25), page.TotalItems)
	assert.Equal(t, 3, page.TotalPages)
}

func TestPostService_HomeFeed_NormalizesPage(t *testing.T) {
	var gotOffset int
	postRepo := noopPostRepo()
	postRepo.listVisibleFn = func(_ context.Context, _, offset int) ([]*models.Post, int64, error) {
		gotOffset = offset
		return nil, 0, nil
	}
	svc := newPostService(postRepo, noopCategoryRepo(), noopLocationRepo(), noopUserRepo())

	_, err := svc.HomeFeed(context.Background(), -4)
	require.NoError(t, err)
	assert.Equal(t, 0, gotOffset)
}

func TestPostService_CategoryFeed_UnpublishedCategory(t *testing.T) {
	categoryRepo := noopCategoryRepo()
	categoryRepo.getBySlugFn = func(_ context.Context, _ string) (*models.Category, error) {
		return &models.Category{ID: 1, Slug: "drafts", IsPublished: false}, nil
	}
	svc := newPostService(noopPostRepo(), categoryRepo, noopLocationRepo(), noopUserRepo())

	_, err := svc.CategoryFeed(context.Background(), "drafts", 1)
	assertAppErrorCode(t, err, "NOT_FOUND")
}

func TestPostService_CategoryFeed_Missing(t *testing.T) {
	categoryRepo := noopCategoryRepo()
	categoryRepo.getBySlugFn = func(_ context.Context, _ string) (*models.Category, error) {
		return nil, gorm.ErrRecordNotFound
	}
	svc := newPostService(noopPostRepo(), categoryRepo, noopLocationRepo(), noopUserRepo())

	_, err := svc.CategoryFeed(context.Background(), "ghost", 1)
	assertAppErrorCode(t, err, "NOT_FOUND")
}

func TestPostService_ProfileFeed_OwnerSeesEverything(t *testing.T) {
	tests := []struct {
		name            string
		currentUserID   uint
		wantVisibleOnly bool
	}{
		{"Owner", 5, false},
		{"Other User", 7, true},
		{"Anonymous", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := noopUserRepo()
			userRepo.getByUsernameFn = func(_ context.Context, _ string) (*models.User, error) {
				return &models.User{ID: 5, Username: "author"}, nil
			}
			var gotVisibleOnly bool
			postRepo := noopPostRepo()
			postRepo.listByAuthorFn = func(_ context.Context, _ uint, visibleOnly bool, _, _ int) ([]*models.Post, int64, error) {
				gotVisibleOnly = visibleOnly
				return nil, 0, nil
			}
			svc := newPostService(postRepo, noopCategoryRepo(), noopLocationRepo(), userRepo)

			page, err := svc.ProfileFeed(context.Background(), "author", tt.currentUserID, 1)
			require.NoError(t, err)
			assert.Equal(t, tt.wantVisibleOnly, gotVisibleOnly)
			assert.Equal(t, "author", page.Profile.Username)
		})
	}
}

func TestPostService_UpdatePost_Ownership(t *testing.T) {
	postRepo := noopPostRepo()
	postRepo.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) {
		return &models.Post{ID: 1, AuthorID: 5}, nil
	}
	svc := newPostService(postRepo, noopCategoryRepo(), noopLocationRepo(), noopUserRepo())

	_, err := svc.UpdatePost(context.Background(), UpdatePostInput{UserID: 7, PostID: 1, Title: "Stolen"})
	assertAppErrorCode(t, err, "FORBIDDEN")
}

func TestPostService_UpdatePost_PartialFields(t *testing.T) {
	var saved *models.Post
	postRepo := noopPostRepo()
	postRepo.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) {
		return &models.Post{ID: 1, AuthorID: 5, Title: "Old", Text: "Old text", CategoryID: 1}, nil
	}
	postRepo.updateFn = func(_ context.Context, post *models.Post) error {
		saved = post
		return nil
	}
	svc := newPostService(postRepo, noopCategoryRepo(), noopLocationRepo(), noopUserRepo())

	_, err := svc.UpdatePost(context.Background(), UpdatePostInput{UserID: 5, PostID: 1, Title: "New"})
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "New", saved.Title)
	assert.Equal(t, "Old text", saved.Text)
}

func TestPostService_DeletePost(t *testing.T) {
	t.Run("Author Can Delete", func(t *testing.T) {
		deleted := false
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) {
			return &models.Post{ID: 1, AuthorID: 5}, nil
		}
		postRepo.deleteFn = func(_ context.Context, _ uint) error {
			deleted = true
			return nil
		}
		svc := newPostService(postRepo, noopCategoryRepo(), noopLocationRepo(), noopUserRepo())

		err := svc.DeletePost(context.Background(), 5, 1)
		assert.NoError(t, err)
		assert.True(t, deleted)
	})

	t.Run("Non Author Forbidden", func(t *testing.T) {
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) {
			return &models.Post{ID: 1, AuthorID: 5}, nil
		}
		svc := newPostService(postRepo, noopCategoryRepo(), noopLocationRepo(), noopUserRepo())

		err := svc.DeletePost(context.Background(), 7, 1)
		assertAppErrorCode(t, err, "FORBIDDEN")
	})

	t.Run("Repo Error Propagates", func(t *testing.T) {
		wantErr := errors.New("db down")
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) {
			return nil, wantErr
		}
		svc := newPostService(postRepo, noopCategoryRepo(), noopLocationRepo(), noopUserRepo())

		err := svc.DeletePost(context.Background(), 5, 1)
		assert.ErrorIs(t, err, wantErr)
	})
}
