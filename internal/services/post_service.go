package services

import (
	"fmt"
	"log"
	"time"

	"blog/internal/models"
	"blog/internal/repositories"
	"blog/pkg/rabbitmq"
)

// PostService handles business logic for posts and comments. Every
// mutation re-evaluates the authorization gate with the actor resolved
// for the current request; the decision is never cached.
type PostService struct {
	postRepo repositories.PostRepository
	mqClient *rabbitmq.Client
}

// NewPostService creates a new PostService. mqClient may be nil, in
// which case event publication is skipped.
func NewPostService(postRepo repositories.PostRepository, mqClient *rabbitmq.Client) *PostService {
	return &PostService{
		postRepo: postRepo,
		mqClient: mqClient,
	}
}

// Authorize decides whether actorID may perform a privileged post
// mutation. actorID 0 means anonymous (user ids start at 1); anyone
// other than the administrator is denied.
func (s *PostService) Authorize(actorID uint) error {
	if actorID != models.AdminID {
		return fmt.Errorf("user %d may not manage posts: %w", actorID, models.ErrAccessDenied)
	}
	return nil
}

// ListPosts retrieves all posts.
func (s *PostService) ListPosts() ([]models.Post, error) {
	return s.postRepo.GetAll()
}

// GetPost retrieves a single post by its ID.
func (s *PostService) GetPost(id uint) (*models.Post, error) {
	return s.postRepo.GetByID(id)
}

// CreatePost stores a new post authored by actorID, stamping it with
// today's display date. Denied actors reach neither the stamp nor the
// store.
func (s *PostService) CreatePost(actorID uint, post *models.Post) error {
	if err := s.Authorize(actorID); err != nil {
		return err
	}

	post.AuthorID = actorID
	post.Date = time.Now().Format(models.DateLayout)
	if err := s.postRepo.Create(post); err != nil {
		return err
	}

	s.publish("post.created", map[string]interface{}{
		"postID":   post.ID,
		"title":    post.Title,
		"authorID": post.AuthorID,
	})
	return nil
}

// UpdatePost overwrites the editable fields of an existing post. The
// original author and publication date are kept.
func (s *PostService) UpdatePost(actorID uint, id uint, updated *models.Post) (*models.Post, error) {
	if err := s.Authorize(actorID); err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	post.Title = updated.Title
	post.Subtitle = updated.Subtitle
	post.Body = updated.Body
	post.ImgURL = updated.ImgURL
	if err := s.postRepo.Update(post); err != nil {
		return nil, err
	}

	s.publish("post.updated", map[string]interface{}{
		"postID": post.ID,
		"title":  post.Title,
	})
	return post, nil
}

// DeletePost removes a post by its ID.
func (s *PostService) DeletePost(actorID uint, id uint) error {
	if err := s.Authorize(actorID); err != nil {
		return err
	}

	if err := s.postRepo.Delete(id); err != nil {
		return err
	}

	s.publish("post.deleted", map[string]interface{}{
		"postID": id,
	})
	return nil
}

// AddComment records a comment by actorID on an existing post. Any
// authenticated user may comment; anonymous visitors may not.
func (s *PostService) AddComment(actorID uint, postID uint, text string) (*models.Comment, error) {
	if actorID == 0 {
		return nil, fmt.Errorf("anonymous visitors may not comment: %w", models.ErrAccessDenied)
	}

	if _, err := s.postRepo.GetByID(postID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Text:     text,
		AuthorID: actorID,
		PostID:   postID,
	}
	if err := s.postRepo.AddComment(comment); err != nil {
		return nil, err
	}

	s.publish("comment.created", map[string]interface{}{
		"commentID": comment.ID,
		"postID":    postID,
		"authorID":  actorID,
	})
	return comment, nil
}

// CommentsForPost retrieves the comments on one post, verifying the
// post exists first.
func (s *PostService) CommentsForPost(postID uint) ([]models.Comment, error) {
	if _, err := s.postRepo.GetByID(postID); err != nil {
		return nil, err
	}
	return s.postRepo.CommentsByPost(postID)
}

// publish sends a blog event if a message queue client is configured.
// Publication failures are logged, never surfaced: the mutation has
// already committed and the caller's request must not fail over a
// broker hiccup.
func (s *PostService) publish(event string, payload map[string]interface{}) {
	if s.mqClient == nil {
		log.Println("RabbitMQ client is not initialized. Skipping message publication.")
		return
	}
	if err := s.mqClient.PublishEvent(event, payload); err != nil {
		log.Printf("Warning: Failed to publish %s event: %v", event, err)
	}
}
