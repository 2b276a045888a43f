package services_test

import (
	"testing"

	"blog/internal/models"
	"blog/internal/repositories"
	"blog/internal/services"

	"github.com/stretchr/testify/assert"
)

// The nil rabbitmq client in every test also covers the broker-less
// configuration: mutations must succeed with publication skipped.

func newPostService() (*services.PostService, *repositories.MockPostRepository) {
	repo := repositories.NewMockPostRepository()
	return services.NewPostService(repo, nil), repo
}

func samplePost(title string) *models.Post {
	return &models.Post{
		Title:    title,
		Subtitle: "a subtitle",
		Body:     "some body text",
		ImgURL:   "https://example.com/img.png",
	}
}

func TestPostService_Authorize(t *testing.T) {
	service, _ := newPostService()

	assert.ErrorIs(t, service.Authorize(0), models.ErrAccessDenied) // anonymous
	assert.ErrorIs(t, service.Authorize(2), models.ErrAccessDenied) // regular user
	assert.NoError(t, service.Authorize(models.AdminID))
}

func TestPostService_CreatePostAsAdmin(t *testing.T) {
	service, repo := newPostService()

	post := samplePost("First Post")
	err := service.CreatePost(models.AdminID, post)
	assert.NoError(t, err)
	assert.Equal(t, models.AdminID, post.AuthorID)
	assert.NotEmpty(t, post.Date)

	stored, err := repo.GetByID(post.ID)
	assert.NoError(t, err)
	assert.Equal(t, "First Post", stored.Title)
}

func TestPostService_CreatePostDenied(t *testing.T) {
	service, repo := newPostService()

	err := service.CreatePost(2, samplePost("Sneaky Post"))
	assert.ErrorIs(t, err, models.ErrAccessDenied)

	err = service.CreatePost(0, samplePost("Anonymous Post"))
	assert.ErrorIs(t, err, models.ErrAccessDenied)

	// Denial performs no mutation.
	posts, err := repo.GetAll()
	assert.NoError(t, err)
	assert.Empty(t, posts)
}

func TestPostService_UpdatePost(t *testing.T) {
	service, _ := newPostService()

	post := samplePost("Original Title")
	assert.NoError(t, service.CreatePost(models.AdminID, post))
	originalDate := post.Date

	updated, err := service.UpdatePost(models.AdminID, post.ID, samplePost("New Title"))
	assert.NoError(t, err)
	assert.Equal(t, "New Title", updated.Title)
	// Author and publication date survive an edit.
	assert.Equal(t, models.AdminID, updated.AuthorID)
	assert.Equal(t, originalDate, updated.Date)
}

func TestPostService_UpdatePostDeniedAndNotFound(t *testing.T) {
	service, repo := newPostService()

	post := samplePost("Keep Me")
	assert.NoError(t, service.CreatePost(models.AdminID, post))

	_, err := service.UpdatePost(2, post.ID, samplePost("Hijacked"))
	assert.ErrorIs(t, err, models.ErrAccessDenied)

	stored, _ := repo.GetByID(post.ID)
	assert.Equal(t, "Keep Me", stored.Title)

	_, err = service.UpdatePost(models.AdminID, 999, samplePost("Ghost"))
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestPostService_DeletePost(t *testing.T) {
	service, _ := newPostService()

	post := samplePost("Short Lived")
	assert.NoError(t, service.CreatePost(models.AdminID, post))

	assert.ErrorIs(t, service.DeletePost(2, post.ID), models.ErrAccessDenied)
	assert.NoError(t, service.DeletePost(models.AdminID, post.ID))

	_, err := service.GetPost(post.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	assert.ErrorIs(t, service.DeletePost(models.AdminID, post.ID), models.ErrNotFound)
}

func TestPostService_Comments(t *testing.T) {
	service, _ := newPostService()

	post := samplePost("Discussed Post")
	assert.NoError(t, service.CreatePost(models.AdminID, post))

	// Anonymous visitors may not comment.
	_, err := service.AddComment(0, post.ID, "drive-by")
	assert.ErrorIs(t, err, models.ErrAccessDenied)

	// Any authenticated user may, admin or not.
	comment, err := service.AddComment(2, post.ID, "nice writeup")
	assert.NoError(t, err)
	assert.Equal(t, uint(2), comment.AuthorID)
	assert.Equal(t, post.ID, comment.PostID)

	comments, err := service.CommentsForPost(post.ID)
	assert.NoError(t, err)
	assert.Len(t, comments, 1)
	assert.Equal(t, "nice writeup", comments[0].Text)

	// Commenting on a missing post is a NotFound, not a silent insert.
	_, err = service.AddComment(2, 999, "into the void")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = service.CommentsForPost(999)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
