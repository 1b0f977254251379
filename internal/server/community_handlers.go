package server

import (
	"debteraser/internal/models"

	"github.com/gofiber/fiber/v2"
)

// postView is the feed representation of a post.
type postView struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Category  string `json:"category"`
	Author    string `json:"author"`
	Avatar    string `json:"avatar"`
	Likes     int    `json:"likes"`
	Comments  int    `json:"comments"`
	CreatedAt string `json:"created_at"`
	TimeAgo   string `json:"timeAgo"`
}

func toPostView(p models.Post) postView {
	author := p.User.Name
	if author == "" {
		author = "Anonymous"
	}
	return postView{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Category:  p.Category,
		Author:    author,
		Avatar:    p.User.Avatar,
		Likes:     p.LikesCount,
		Comments:  p.CommentsCount,
		CreatedAt: p.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		TimeAgo:   timeAgo(p.CreatedAt),
	}
}

// GetPosts handles GET /api/community/posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	p := parsePagination(c, 50)

	posts, err := s.postRepo.List(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return respondAppError(c, err)
	}

	views := make([]postView, 0, len(posts))
	for _, post := range posts {
		views = append(views, toPostView(post))
	}
	return c.JSON(views)
}

// CreatePost handles POST /api/community/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		Title    string `json:"title"`
		Content  string `json:"content"`
		Category string `json:"category"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Content == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Content is required"))
	}

	post := &models.Post{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		UserID:   c.Locals("userID").(uint),
	}
	if err := s.postRepo.Create(c.Context(), post); err != nil {
		return respondAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":      post.ID,
		"success": true,
	})
}

// LikePost handles POST /api/community/posts/:id/like. Liking is idempotent;
// the response carries the resulting count either way.
func (s *Server) LikePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	count, err := s.postRepo.Like(c.Context(), c.Locals("userID").(uint), postID)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"likes":   count,
		"success": true,
	})
}

// commentView is the feed representation of a comment.
type commentView struct {
	ID        uint   `json:"id"`
	Content   string `json:"content"`
	Author    string `json:"author"`
	Avatar    string `json:"avatar"`
	CreatedAt string `json:"created_at"`
}

// GetComments handles GET /api/community/posts/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, err := s.postRepo.ListComments(c.Context(), postID)
	if err != nil {
		return respondAppError(c, err)
	}

	views := make([]commentView, 0, len(comments))
	for _, comment := range comments {
		author := comment.User.Name
		if author == "" {
			author = "Anonymous"
		}
		views = append(views, commentView{
			ID:        comment.ID,
			Content:   comment.Content,
			Author:    author,
			Avatar:    comment.User.Avatar,
			CreatedAt: comment.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return c.JSON(views)
}

// CreateComment handles POST /api/community/posts/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil || req.Content == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Content is required"))
	}

	comment := &models.Comment{
		Content: req.Content,
		UserID:  c.Locals("userID").(uint),
		PostID:  postID,
	}
	if err := s.postRepo.CreateComment(c.Context(), comment); err != nil {
		return respondAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":      comment.ID,
		"success": true,
	})
}
