// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"blogicum/internal/models"
	"blogicum/internal/validation"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

var categoryTitles = []string{
	"Travel", "Food", "Technology", "Music", "Books",
	"Photography", "City Life", "History", "Nature", "Sports",
}

// Seed populates the database with demo blog data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("%d users created", len(users))

	categories, err := createCategories(db)
	if err != nil {
		return fmt.Errorf("failed to create categories: %w", err)
	}
	log.Printf("%d categories created", len(categories))

	locations, err := createLocations(db)
	if err != nil {
		return fmt.Errorf("failed to create locations: %w", err)
	}
	log.Printf("%d locations created", len(locations))

	posts, err := createPosts(db, users, categories, locations, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("%d posts created", len(posts))

	numComments, err := createComments(db, users, posts)
	if err != nil {
		return fmt.Errorf("failed to create comments: %w", err)
	}
	log.Printf("%d comments created", numComments)

	return nil
}

func clearData(db *gorm.DB) error {
	// Delete in dependency order
	for _, model := range []any{
		&models.Comment{}, &models.Post{}, &models.Category{},
		&models.Location{}, &models.User{},
	} {
		if err := db.Unscoped().Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

func createUsers(db *gorm.DB, n int) ([]*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		first := gofakeit.FirstName()
		last := gofakeit.LastName()
		user := &models.User{
			Username:  fmt.Sprintf("%s_%s%d", strings.ToLower(first), strings.ToLower(last), i),
			Email:     fmt.Sprintf("%s.%s%d@example.com", strings.ToLower(first), strings.ToLower(last), i),
			Password:  string(hashed),
			FirstName: first,
			LastName:  last,
			Bio:       gofakeit.Sentence(12),
			IsStaff:   i == 0, // first seeded user can use the admin surface
		}
		if err := db.Create(user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func createCategories(db *gorm.DB) ([]*models.Category, error) {
	categories := make([]*models.Category, 0, len(categoryTitles))
	for i, title := range categoryTitles {
		category := &models.Category{
			Title:       title,
			Slug:        validation.Slugify(title),
			Description: gofakeit.Paragraph(1, 3, 10, " "),
			// Leave one category unpublished so its posts are hidden
			IsPublished: i != len(categoryTitles)-1,
		}
		if err := db.Create(category).Error; err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, nil
}

func createLocations(db *gorm.DB) ([]*models.Location, error) {
	locations := make([]*models.Location, 0, 8)
	for i := 0; i < 8; i++ {
		location := &models.Location{
			Name:        gofakeit.City(),
			IsPublished: i != 0,
		}
		if err := db.Create(location).Error; err != nil {
			return nil, err
		}
		locations = append(locations, location)
	}
	return locations, nil
}

func createPosts(db *gorm.DB, users []*models.User, categories []*models.Category, locations []*models.Location, n int) ([]*models.Post, error) {
	now := time.Now().UTC()
	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		pubDate := now.Add(-time.Duration(rand.Intn(90*24)) * time.Hour)
		// A slice of posts is scheduled in the future and hidden from feeds
		if rand.Intn(10) == 0 {
			pubDate = now.Add(time.Duration(1+rand.Intn(30*24)) * time.Hour)
		}

		post := &models.Post{
			Title:       gofakeit.Sentence(5),
			Text:        gofakeit.Paragraph(3, 5, 15, "\n\n"),
			PubDate:     pubDate,
			IsPublished: rand.Intn(10) != 0,
			AuthorID:    users[rand.Intn(len(users))].ID,
			CategoryID:  categories[rand.Intn(len(categories))].ID,
		}
		if rand.Intn(3) != 0 {
			locationID := locations[rand.Intn(len(locations))].ID
			post.LocationID = &locationID
		}

		if err := db.Create(post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func createComments(db *gorm.DB, users []*models.User, posts []*models.Post) (int, error) {
	count := 0
	for _, post := range posts {
		for i := 0; i < rand.Intn(6); i++ {
			comment := &models.Comment{
				Text:     gofakeit.Sentence(10),
				AuthorID: users[rand.Intn(len(users))].ID,
				PostID:   post.ID,
			}
			if err := db.Create(comment).Error; err != nil {
				return count, err
			}
			count++
		}
	}
	return count, nil
}
