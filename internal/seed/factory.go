// Package seed provides helpers to create demo and test data for the
// application database. Intended for development and testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"framez/internal/auth"
	"framez/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Options controls how the factory generates and persists entities.
type Options struct {
	// DryRun builds entities and assigns synthetic IDs without touching
	// the database.
	DryRun bool
	// SkipBcrypt stores a plaintext marker password instead of hashing.
	// Dev fast mode only; never enable outside local seeding.
	SkipBcrypt bool
	// MaxDays spreads generated created_at timestamps over this many
	// days back from now. Defaults to 30 when zero.
	MaxDays int
}

// DefaultPassword is the password every seeded user gets.
const DefaultPassword = "password123"

// Factory builds domain entities and persists them. It is a thin
// helper used by seed presets and tests.
type Factory struct {
	db     *gorm.DB
	opts   Options
	rng    *rand.Rand
	nextID uint
}

// NewFactory creates a Factory bound to the given Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	now := time.Now().UnixNano()
	gofakeit.Seed(now)
	return &Factory{
		db:     db,
		opts:   opts,
		rng:    rand.New(rand.NewSource(now)),
		nextID: 1000,
	}
}

func (f *Factory) backdated() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 30
	}
	daysBack := f.rng.Intn(maxDays)
	hoursBack := f.rng.Intn(24)
	minsBack := f.rng.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour -
		time.Duration(minsBack)*time.Minute)
}

// BuildUser constructs a user without persisting it.
func (f *Factory) BuildUser(overrides ...func(*models.User)) *models.User {
	user := &models.User{
		Email:       gofakeit.Email(),
		DisplayName: gofakeit.Name(),
		AvatarURL:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	if f.opts.SkipBcrypt {
		user.Password = DefaultPassword
	} else {
		hashed, _ := auth.HashPassword(DefaultPassword)
		user.Password = hashed
	}

	for _, override := range overrides {
		override(user)
	}
	return user
}

// CreateUser constructs and persists a sample user. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := f.BuildUser(overrides...)

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		log.Printf("[dry-run] CreateUser: %s <%s>", user.DisplayName, user.Email)
		return user, nil
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildPost constructs a post for the given author without persisting
// it. Roughly a third of generated posts carry an image.
func (f *Factory) BuildPost(user *models.User, overrides ...func(*models.Post)) *models.Post {
	post := &models.Post{
		UserID:    user.ID,
		UserName:  user.DisplayName,
		UserEmail: user.Email,
		Content:   gofakeit.Paragraph(1, 3, 8, "\n"),
		CreatedAt: f.backdated(),
	}
	if f.rng.Intn(3) == 0 {
		post.ImageURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID())
	}

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePost constructs and persists a sample post for the given user.
func (f *Factory) CreatePost(user *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := f.BuildPost(user, overrides...)

	if f.opts.DryRun {
		f.nextID++
		post.ID = f.nextID
		log.Printf("[dry-run] CreatePost: user=%d", post.UserID)
		return post, nil
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreatePostsBatch persists multiple posts in a single DB call.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	if f.opts.DryRun {
		for _, p := range posts {
			f.nextID++
			p.ID = f.nextID
		}
		log.Printf("[dry-run] CreatePostsBatch: %d posts (no DB write)", len(posts))
		return nil
	}
	return f.db.Create(&posts).Error
}

// CreateLike records a like from user on post. Duplicate pairs are
// skipped by the unique index, matching production semantics.
func (f *Factory) CreateLike(post *models.Post, user *models.User) (*models.Like, error) {
	like := &models.Like{
		PostID:    post.ID,
		UserID:    user.ID,
		CreatedAt: f.backdated(),
	}

	if f.opts.DryRun {
		f.nextID++
		like.ID = f.nextID
		return like, nil
	}

	err := f.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "post_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(like).Error
	if err != nil {
		return nil, err
	}
	return like, nil
}

// CreateComment constructs and persists a comment by user on post.
func (f *Factory) CreateComment(post *models.Post, user *models.User, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		PostID:    post.ID,
		UserID:    user.ID,
		UserName:  user.DisplayName,
		Content:   gofakeit.Sentence(f.rng.Intn(12) + 3),
		CreatedAt: f.backdated(),
	}

	for _, override := range overrides {
		override(comment)
	}

	if f.opts.DryRun {
		f.nextID++
		comment.ID = f.nextID
		return comment, nil
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}
