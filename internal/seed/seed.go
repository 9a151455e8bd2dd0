package seed

import (
	"fmt"
	"log"

	"framez/internal/models"

	"gorm.io/gorm"
)

// Seeder populates the database with a realistic social mesh: users,
// their posts, and likes and comments spread across the feed.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder with default factory options.
func NewSeeder(db *gorm.DB) *Seeder {
	return NewSeederWithOptions(db, Options{})
}

// NewSeederWithOptions creates a Seeder with explicit factory options.
func NewSeederWithOptions(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db, opts)}
}

// ClearAll removes all seeded rows. Deletion order follows foreign key
// dependencies.
func (s *Seeder) ClearAll() error {
	tables := []any{
		&models.Like{},
		&models.Comment{},
		&models.Post{},
		&models.User{},
	}
	for _, table := range tables {
		if err := s.db.Unscoped().Where("1 = 1").Delete(table).Error; err != nil {
			return fmt.Errorf("clear %T: %w", table, err)
		}
	}
	return nil
}

// SeedUsers creates n users with the default password.
func (s *Seeder) SeedUsers(n int) ([]*models.User, error) {
	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return nil, fmt.Errorf("create user %d: %w", i+1, err)
		}
		users = append(users, user)
	}
	return users, nil
}

// SeedPosts spreads numPosts across the given users.
func (s *Seeder) SeedPosts(users []*models.User, numPosts int) ([]*models.Post, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("no users to author posts")
	}

	posts := make([]*models.Post, 0, numPosts)
	for i := 0; i < numPosts; i++ {
		author := users[s.factory.rng.Intn(len(users))]
		posts = append(posts, s.factory.BuildPost(author))
	}
	if err := s.factory.CreatePostsBatch(posts); err != nil {
		return nil, fmt.Errorf("create posts: %w", err)
	}
	return posts, nil
}

// SeedEngagement adds likes and comments to the given posts. Each post
// gets up to maxLikes likes and up to maxComments comments from random
// users.
func (s *Seeder) SeedEngagement(users []*models.User, posts []*models.Post, maxLikes, maxComments int) error {
	if len(users) == 0 {
		return fmt.Errorf("no users to engage")
	}

	for _, post := range posts {
		for i := s.factory.rng.Intn(maxLikes + 1); i > 0; i-- {
			liker := users[s.factory.rng.Intn(len(users))]
			if _, err := s.factory.CreateLike(post, liker); err != nil {
				return fmt.Errorf("like post %d: %w", post.ID, err)
			}
		}
		for i := s.factory.rng.Intn(maxComments + 1); i > 0; i-- {
			commenter := users[s.factory.rng.Intn(len(users))]
			if _, err := s.factory.CreateComment(post, commenter); err != nil {
				return fmt.Errorf("comment on post %d: %w", post.ID, err)
			}
		}
	}
	return nil
}

// Run seeds a full mesh: users, posts, then engagement.
func (s *Seeder) Run(numUsers, numPosts int) error {
	log.Printf("Seeding %d users and %d posts", numUsers, numPosts)

	users, err := s.SeedUsers(numUsers)
	if err != nil {
		return err
	}
	posts, err := s.SeedPosts(users, numPosts)
	if err != nil {
		return err
	}
	if err := s.SeedEngagement(users, posts, 8, 4); err != nil {
		return err
	}

	log.Printf("Seeded %d users, %d posts", len(users), len(posts))
	return nil
}
