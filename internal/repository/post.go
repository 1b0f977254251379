package repository

import (
	"context"
	"errors"

	"debteraser/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository defines persistence operations for community posts,
// likes, and comments.
type PostRepository interface {
	List(ctx context.Context, limit, offset int) ([]models.Post, error)
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	Create(ctx context.Context, post *models.Post) error
	Like(ctx context.Context, userID, postID uint) (int64, error)
	ListComments(ctx context.Context, postID uint) ([]models.Comment, error)
	CreateComment(ctx context.Context, comment *models.Comment) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// countSelect attaches like and comment counts as subselect aliases so a
// single query fills the computed Post fields.
const countSelect = `posts.*,
(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id AND likes.deleted_at IS NULL) AS likes_count,
(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id AND comments.deleted_at IS NULL) AS comments_count`

func (r *postRepository) List(ctx context.Context, limit, offset int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Select(countSelect).
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Select(countSelect).
		Preload("User").
		First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Post", id)
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Like records a like idempotently. A repeat like from the same user is a
// no-op thanks to the unique (user_id, post_id) index. Returns the post's
// resulting like count.
func (r *postRepository) Like(ctx context.Context, userID, postID uint) (int64, error) {
	var exists int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", postID).Count(&exists).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	if exists == 0 {
		return 0, models.NewNotFoundError("Post", postID)
	}

	like := models.Like{UserID: userID, PostID: postID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&like).Error
	if err != nil && !isUniqueViolation(err) {
		return 0, models.NewInternalError(err)
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *postRepository) ListComments(ctx context.Context, postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (r *postRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	var exists int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", comment.PostID).Count(&exists).Error; err != nil {
		return models.NewInternalError(err)
	}
	if exists == 0 {
		return models.NewNotFoundError("Post", comment.PostID)
	}
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
