package handlers

import (
	"errors"
	"log"

	"blog/internal/middleware"
	"blog/internal/models"
	"blog/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// PostHandler handles HTTP requests for posts and comments.
type PostHandler struct {
	service  *services.PostService
	validate *validator.Validate
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(service *services.PostService) *PostHandler {
	return &PostHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the post routes with the Fiber app. Reads
// are public; the three mutations sit behind the admin gate; comments
// need any authenticated user, enforced in the service.
func (h *PostHandler) RegisterRoutes(router fiber.Router) {
	postRoutes := router.Group("/posts")
	postRoutes.Get("/", h.HandleGetPosts)
	postRoutes.Get("/:id", h.HandleGetPost)
	postRoutes.Get("/:id/comments", h.HandleGetComments)
	postRoutes.Post("/:id/comments", h.HandleAddComment)

	postRoutes.Post("/", middleware.AdminRequired(), h.HandleCreatePost)
	postRoutes.Put("/:id", middleware.AdminRequired(), h.HandleUpdatePost)
	postRoutes.Delete("/:id", middleware.AdminRequired(), h.HandleDeletePost)
}

// PostRequest represents the request body for creating or editing a
// post.
type PostRequest struct {
	Title    string `json:"title" validate:"required,max=250"`
	Subtitle string `json:"subtitle" validate:"required,max=250"`
	Body     string `json:"body" validate:"required"`
	ImgURL   string `json:"img_url" validate:"required,url"`
}

// CommentRequest represents the request body for commenting on a post.
type CommentRequest struct {
	Text string `json:"text" validate:"required"`
}

// HandleGetPosts retrieves all posts.
func (h *PostHandler) HandleGetPosts(c *fiber.Ctx) error {
	posts, err := h.service.ListPosts()
	if err != nil {
		log.Printf("Error getting all posts: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve posts",
			"error":   err.Error(),
		})
	}
	return c.JSON(posts)
}

// HandleGetPost retrieves a single post by its ID.
func (h *PostHandler) HandleGetPost(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid post ID",
		})
	}

	post, err := h.service.GetPost(uint(id))
	if err != nil {
		return h.errorResponse(c, err, "Could not retrieve post")
	}
	return c.JSON(post)
}

// HandleCreatePost creates a new post authored by the current user.
func (h *PostHandler) HandleCreatePost(c *fiber.Ctx) error {
	var req PostRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	post := &models.Post{
		Title:    req.Title,
		Subtitle: req.Subtitle,
		Body:     req.Body,
		ImgURL:   req.ImgURL,
	}
	if err := h.service.CreatePost(middleware.CurrentUserID(c), post); err != nil {
		return h.errorResponse(c, err, "Could not create post")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Post created successfully",
		"post":    post,
	})
}

// HandleUpdatePost edits an existing post.
func (h *PostHandler) HandleUpdatePost(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid post ID",
		})
	}

	var req PostRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	updated := &models.Post{
		Title:    req.Title,
		Subtitle: req.Subtitle,
		Body:     req.Body,
		ImgURL:   req.ImgURL,
	}
	post, err := h.service.UpdatePost(middleware.CurrentUserID(c), uint(id), updated)
	if err != nil {
		return h.errorResponse(c, err, "Could not update post")
	}

	return c.JSON(fiber.Map{
		"message": "Post updated successfully",
		"post":    post,
	})
}

// HandleDeletePost deletes a post by its ID.
func (h *PostHandler) HandleDeletePost(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid post ID",
		})
	}

	if err := h.service.DeletePost(middleware.CurrentUserID(c), uint(id)); err != nil {
		return h.errorResponse(c, err, "Could not delete post")
	}

	return c.JSON(fiber.Map{
		"message":  "Post deleted successfully",
		"redirect": "/",
	})
}

// HandleAddComment records a comment on a post by the current user.
func (h *PostHandler) HandleAddComment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid post ID",
		})
	}

	var req CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	comment, err := h.service.AddComment(middleware.CurrentUserID(c), uint(id), req.Text)
	if err != nil {
		return h.errorResponse(c, err, "Could not add comment")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Comment added successfully",
		"comment": comment,
	})
}

// HandleGetComments retrieves the comments on a post.
func (h *PostHandler) HandleGetComments(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid post ID",
		})
	}

	comments, err := h.service.CommentsForPost(uint(id))
	if err != nil {
		return h.errorResponse(c, err, "Could not retrieve comments")
	}
	return c.JSON(comments)
}

// errorResponse maps service errors onto HTTP statuses.
func (h *PostHandler) errorResponse(c *fiber.Ctx, err error, message string) error {
	log.Printf("%s: %v", message, err)
	switch {
	case errors.Is(err, models.ErrAccessDenied):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": message,
			"error":   models.ErrAccessDenied.Error(),
		})
	case errors.Is(err, models.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": message,
			"error":   models.ErrNotFound.Error(),
		})
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	}
}
