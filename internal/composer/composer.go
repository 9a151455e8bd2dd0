// Package composer implements drafting and publishing a new post.
package composer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"framez/internal/backend"
	"framez/internal/models"
)

// Clock returns the current time. Injectable for tests.
type Clock func() time.Time

// Draft accumulates a post in progress for one viewer. Submit
// publishes it. Safe for concurrent use.
type Draft struct {
	client *backend.Client
	viewer *models.User
	clock  Clock

	mu        sync.Mutex
	content   string
	image     []byte
	imageType string
	lastMS    int64
}

// NewDraft creates an empty draft for viewer.
func NewDraft(client *backend.Client, viewer *models.User) *Draft {
	return &Draft{client: client, viewer: viewer, clock: time.Now}
}

// WithClock overrides the timestamp source.
func (d *Draft) WithClock(clock Clock) *Draft {
	d.clock = clock
	return d
}

// SetContent replaces the draft text.
func (d *Draft) SetContent(content string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.content = content
}

// AttachImage replaces the draft image.
func (d *Draft) AttachImage(data []byte, contentType string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.image = data
	d.imageType = contentType
}

// RemoveImage clears any attached image.
func (d *Draft) RemoveImage() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.image = nil
	d.imageType = ""
}

// Content returns the current draft text.
func (d *Draft) Content() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.content
}

// HasImage reports whether an image is attached.
func (d *Draft) HasImage() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.image) > 0
}

// Submit publishes the draft. A draft with neither trimmed text nor an
// image is rejected before anything is uploaded or inserted. When an
// image is attached it is uploaded first; an upload failure aborts the
// whole submission and the draft keeps its state for retry. On success
// the draft resets to empty.
func (d *Draft) Submit(ctx context.Context) (*models.Post, error) {
	d.mu.Lock()
	content := strings.TrimSpace(d.content)
	image := d.image
	imageType := d.imageType
	d.mu.Unlock()

	if content == "" && len(image) == 0 {
		return nil, models.NewValidationError("Post needs text or an image")
	}
	if d.viewer == nil {
		return nil, models.NewUnauthorizedError("Sign in to post")
	}

	var imageURL string
	if len(image) > 0 {
		key := d.nextImageKey()
		if err := d.client.Storage.Upload(ctx, key, image, imageType); err != nil {
			return nil, err
		}
		imageURL = d.client.Storage.PublicURL(key)
	}

	post := &models.Post{
		UserID:    d.viewer.ID,
		UserName:  d.viewer.DisplayName,
		UserEmail: d.viewer.Email,
		Content:   content,
		ImageURL:  imageURL,
	}
	if err := d.client.Posts.Insert(ctx, post); err != nil {
		return nil, err
	}

	d.mu.Lock()
	d.content = ""
	d.image = nil
	d.imageType = ""
	d.mu.Unlock()
	return post, nil
}

// nextImageKey derives a viewer-scoped object key from the clock in
// milliseconds, bumped forward when the clock has not advanced since
// the previous key, so two rapid submissions never collide.
func (d *Draft) nextImageKey() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	ms := d.clock().UnixMilli()
	if ms <= d.lastMS {
		ms = d.lastMS + 1
	}
	d.lastMS = ms
	return fmt.Sprintf("%d_%d.jpg", d.viewer.ID, ms)
}
