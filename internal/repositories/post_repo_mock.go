package repositories

import (
	"fmt"
	"sync"

	"blog/internal/models"
)

// MockPostRepository is an in-memory implementation of PostRepository.
type MockPostRepository struct {
	posts    map[uint]models.Post
	comments map[uint][]models.Comment
	nextID   uint
	nextCID  uint
	mu       sync.RWMutex
}

// NewMockPostRepository creates a new instance of MockPostRepository.
func NewMockPostRepository() *MockPostRepository {
	return &MockPostRepository{
		posts:    make(map[uint]models.Post),
		comments: make(map[uint][]models.Comment),
		nextID:   1,
		nextCID:  1,
	}
}

// GetAll returns all posts.
func (r *MockPostRepository) GetAll() ([]models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	postList := make([]models.Post, 0, len(r.posts))
	for _, p := range r.posts {
		postList = append(postList, p)
	}
	return postList, nil
}

// GetByID returns a post by its ID.
func (r *MockPostRepository) GetByID(id uint) (*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	post, ok := r.posts[id]
	if !ok {
		return nil, fmt.Errorf("post with ID %d: %w", id, models.ErrNotFound)
	}
	return &post, nil
}

// Create adds a new post, assigning the next free ID.
func (r *MockPostRepository) Create(post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.posts {
		if p.Title == post.Title {
			return fmt.Errorf("post titled %q already exists", post.Title)
		}
	}
	if post.ID == 0 {
		post.ID = r.nextID
		r.nextID++
	}
	r.posts[post.ID] = *post
	return nil
}

// Update replaces an existing post.
func (r *MockPostRepository) Update(post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[post.ID]; !ok {
		return fmt.Errorf("post with ID %d: %w", post.ID, models.ErrNotFound)
	}
	r.posts[post.ID] = *post
	return nil
}

// Delete removes a post and its comments.
func (r *MockPostRepository) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[id]; !ok {
		return fmt.Errorf("post with ID %d: %w", id, models.ErrNotFound)
	}
	delete(r.posts, id)
	delete(r.comments, id)
	return nil
}

// AddComment appends a comment to its post's list.
func (r *MockPostRepository) AddComment(comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if comment.ID == 0 {
		comment.ID = r.nextCID
		r.nextCID++
	}
	r.comments[comment.PostID] = append(r.comments[comment.PostID], *comment)
	return nil
}

// CommentsByPost returns the comments recorded for one post.
func (r *MockPostRepository) CommentsByPost(postID uint) ([]models.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	comments := make([]models.Comment, len(r.comments[postID]))
	copy(comments, r.comments[postID])
	return comments, nil
}
