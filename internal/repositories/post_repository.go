package repositories

import "blog/internal/models"

// PostRepository defines the interface for post and comment data
// access. Comments live with posts: the only comment reads the
// application performs are scoped to a single post.
type PostRepository interface {
	GetAll() ([]models.Post, error)
	GetByID(id uint) (*models.Post, error)
	Create(post *models.Post) error
	Update(post *models.Post) error
	Delete(id uint) error

	AddComment(comment *models.Comment) error
	CommentsByPost(postID uint) ([]models.Comment, error)
}
