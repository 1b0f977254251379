// Package seed populates the database with demo content for development
// and testing. It is never invoked in production builds.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"debteraser/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
	// hash computed once; bcrypt per member makes large seeds crawl
	passwordHash string
}

// NewFactory creates a Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	hash, _ := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	return &Factory{
		db:           db,
		opts:         opts,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		passwordHash: string(hash),
	}
}

// demoPassword is shared by every seeded member so local logins are trivial.
const demoPassword = "Correct-Horse-Battery-42"

// CreateMember constructs and persists a community member with paid access.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateMember(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Email:              gofakeit.Email(),
		Name:               gofakeit.Name(),
		Avatar:             fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		Password:           f.passwordHash,
		MembershipType:     models.MembershipCommunity,
		HasCommunityAccess: true,
	}
	for _, override := range overrides {
		override(user)
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("create member: %w", err)
	}
	return user, nil
}

// CreatePost persists a feed post for the given member with a created_at
// spread over the past maxDays so the feed reads like live history.
func (f *Factory) CreatePost(user *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		Title:     gofakeit.Sentence(5),
		Content:   gofakeit.Paragraph(1, 3, 6, "\n"),
		Category:  postCategories[f.rng.Intn(len(postCategories))],
		UserID:    user.ID,
		CreatedAt: f.pastTime(),
	}
	for _, override := range overrides {
		override(post)
	}
	if err := f.db.Create(post).Error; err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

// FanOutEngagement writes likes and a few comments from the member pool onto
// a post. Likes rely on the (user_id, post_id) unique index for idempotency.
func (f *Factory) FanOutEngagement(post *models.Post, members []*models.User, likes, comments int) error {
	if likes > len(members) {
		likes = len(members)
	}
	perm := f.rng.Perm(len(members))
	for i := 0; i < likes; i++ {
		like := &models.Like{UserID: members[perm[i]].ID, PostID: post.ID}
		if err := f.db.Create(like).Error; err != nil {
			return fmt.Errorf("create like: %w", err)
		}
	}
	for i := 0; i < comments; i++ {
		comment := &models.Comment{
			PostID:    post.ID,
			UserID:    members[f.rng.Intn(len(members))].ID,
			Content:   gofakeit.Sentence(f.rng.Intn(10) + 4),
			CreatedAt: post.CreatedAt.Add(time.Duration(i+1) * time.Minute),
		}
		if err := f.db.Create(comment).Error; err != nil {
			return fmt.Errorf("create comment: %w", err)
		}
	}
	return nil
}

func (f *Factory) pastTime() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 30
	}
	back := time.Duration(f.rng.Intn(maxDays))*24*time.Hour +
		time.Duration(f.rng.Intn(24))*time.Hour +
		time.Duration(f.rng.Intn(60))*time.Minute
	return time.Now().Add(-back)
}

var postCategories = []string{"Wins", "Help", "Strategy"}
