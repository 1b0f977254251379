package seed

import (
	"fmt"
	"log/slog"
	"time"

	"debteraser/internal/models"

	"gorm.io/gorm"
)

// Options configures a seeding run.
type Options struct {
	// NumMembers is the number of additional random members beyond the
	// fixed demo accounts.
	NumMembers int
	// NumPosts is the number of random posts beyond the fixed demo posts.
	NumPosts int
	// MaxDays bounds how far in the past generated timestamps are spread.
	MaxDays int
	// ShouldClean truncates seedable tables before writing.
	ShouldClean bool
}

// Seed populates the database with the demo community: the fixed starter
// content every fresh install ships with, plus optional random filler.
func Seed(db *gorm.DB, opts Options) error {
	slog.Info("seeding database", "extra_members", opts.NumMembers, "extra_posts", opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			return fmt.Errorf("clear existing data: %w", err)
		}
	}

	f := NewFactory(db, opts)

	members, err := createDemoMembers(f)
	if err != nil {
		return err
	}
	for i := 0; i < opts.NumMembers; i++ {
		m, err := f.CreateMember()
		if err != nil {
			return err
		}
		members = append(members, m)
	}
	slog.Info("members created", "count", len(members))

	if err := createDemoPosts(f, members); err != nil {
		return err
	}
	for i := 0; i < opts.NumPosts; i++ {
		author := members[f.rng.Intn(len(members))]
		post, err := f.CreatePost(author)
		if err != nil {
			return err
		}
		if err := f.FanOutEngagement(post, members, f.rng.Intn(len(members)), f.rng.Intn(5)); err != nil {
			return err
		}
	}

	if err := createModules(db); err != nil {
		return err
	}
	if err := createVaultResources(db); err != nil {
		return err
	}
	if err := createCalendarEvents(db); err != nil {
		return err
	}
	if err := createConversations(db, members[0]); err != nil {
		return err
	}

	slog.Info("seeding complete")
	return nil
}

// createDemoMembers creates the three named accounts the demo feed is
// written by. members[0] owns the demo conversations.
func createDemoMembers(f *Factory) ([]*models.User, error) {
	named := []struct{ name, email string }{
		{"CryptoKing", "cryptoking@example.com"},
		{"Sarah_V", "sarah.v@example.com"},
		{"DebtSlayer", "debtslayer@example.com"},
	}
	members := make([]*models.User, 0, len(named))
	for _, n := range named {
		n := n
		m, err := f.CreateMember(func(u *models.User) {
			u.Name = n.name
			u.Email = n.email
		})
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, nil
}

func createDemoPosts(f *Factory, members []*models.User) error {
	demo := []struct {
		author   int
		title    string
		content  string
		category string
		likes    int
		comments int
		ageHours int
	}{
		{
			author:   0,
			title:    "Just deleted $15k in collections!",
			content:  "Used the Section 609 template from the vault and all three bureaus folded within 30 days. Proof attached. This system WORKS.",
			category: "Wins",
			likes:    42, comments: 12, ageHours: 2,
		},
		{
			author:   1,
			title:    "Question about inquiry removal",
			content:  "Has anyone used the inquiry removal script on hard pulls older than a year? Do I send it to the bureau or the creditor first?",
			category: "Help",
			likes:    15, comments: 8, ageHours: 5,
		},
		{
			author:   2,
			title:    "STOP PAYING ZOMBIE DEBT",
			content:  "If a collector calls about debt past the statute of limitations, do NOT acknowledge it. One payment restarts the clock. Demand validation in writing, every time.",
			category: "Strategy",
			likes:    89, comments: 34, ageHours: 24,
		},
	}
	for _, d := range demo {
		d := d
		post, err := f.CreatePost(members[d.author], func(p *models.Post) {
			p.Title = d.title
			p.Content = d.content
			p.Category = d.category
			p.CreatedAt = time.Now().Add(-time.Duration(d.ageHours) * time.Hour)
		})
		if err != nil {
			return err
		}
		// engagement counts beyond the member pool come from random filler
		if err := f.FanOutEngagement(post, members, d.likes, d.comments); err != nil {
			return err
		}
	}
	return nil
}

func createModules(db *gorm.DB) error {
	modules := []models.Module{
		{Title: "The Mindset Shift", Description: "Why 79% of credit reports contain errors and how the bureaus profit from them.", Duration: "45 min", OrderIndex: 1},
		{Title: "Analyzing Your Report", Description: "Pulling all three reports and mapping every negative item.", Duration: "60 min", OrderIndex: 2},
		{Title: "Factual Disputing 101", Description: "The exact dispute sequence that forces deletions instead of verifications.", Duration: "90 min", OrderIndex: 3},
		{Title: "Advanced FCRA Tactics", Description: "Escalating stalled disputes using federal statute citations.", Duration: "120 min", OrderIndex: 4, Locked: true},
		{Title: "Taking Them To Court", Description: "Filing small claims against furnishers who refuse to comply.", Duration: "90 min", OrderIndex: 5, Locked: true},
	}
	return db.Create(&modules).Error
}

func createVaultResources(db *gorm.DB) error {
	resources := []models.Resource{
		{
			Title:       "The Nuclear Option: Section 609 Template",
			Description: "The letter that forces bureaus to produce original signed documentation or delete.",
			FileType:    "PDF",
			FileURL:     "/vault/section-609.pdf",
			Category:    "disputes",
		},
		{
			Title:       "Inquiry Removal Script",
			Description: "Word-for-word phone and letter script for wiping unauthorized hard inquiries.",
			FileType:    "PDF",
			FileURL:     "/vault/inquiry-removal.pdf",
			Category:    "disputes",
		},
		{
			Title:       "Medical Debt HIPAA Loophole",
			Description: "Leverage privacy law to remove medical collections without paying.",
			FileType:    "PDF",
			FileURL:     "/vault/medical-debt.pdf",
			Category:    "medical",
		},
		{
			Title:       "Cease & Desist Letter",
			Description: "Stop collector calls cold while you work the dispute process.",
			FileType:    "PDF",
			FileURL:     "/vault/cease-desist.pdf",
			Category:    "collections",
		},
		{
			Title:       "Validation of Debt (VOD) 1.0",
			Description: "Make collectors prove they own the debt before you say a word.",
			FileType:    "PDF",
			FileURL:     "/vault/vod-template.pdf",
			Category:    "collections",
		},
	}
	return db.Create(&resources).Error
}

func createCalendarEvents(db *gorm.DB) error {
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	events := []models.CalendarEvent{
		{
			Title:       "New Doc Drop",
			Date:        monthStart.AddDate(0, 0, 4),
			Type:        models.EventTypeDrop,
			Description: "Fresh template added to the vault.",
		},
		{
			Title:       "Live Q&A with Debt Eraser",
			Date:        monthStart.AddDate(0, 0, 11).Add(19 * time.Hour),
			Type:        models.EventTypeLive,
			Description: "7:00 PM EST. Bring your report.",
		},
		{
			Title:       "Guest Speaker: Consumer Attorney",
			Date:        monthStart.AddDate(0, 0, 24).Add(19 * time.Hour),
			Type:        models.EventTypeLive,
			Description: "FCRA litigation from the plaintiff side.",
		},
	}
	return db.Create(&events).Error
}

func createConversations(db *gorm.DB, owner *models.User) error {
	convos := []models.Conversation{
		{
			UserID:            owner.ID,
			ParticipantName:   "Debt Eraser (Admin)",
			ParticipantAvatar: "https://i.pravatar.cc/150?u=admin",
			LastMessage:       "Keep pushing on that dispute.",
			LastMessageTime:   time.Now().Add(-1 * time.Hour),
			UnreadCount:       1,
		},
		{
			UserID:            owner.ID,
			ParticipantName:   "Sarah_V",
			ParticipantAvatar: "https://i.pravatar.cc/150?u=sarah-v",
			LastMessage:       "Thanks for the tip!",
			LastMessageTime:   time.Now().Add(-26 * time.Hour),
		},
	}
	if err := db.Create(&convos).Error; err != nil {
		return err
	}
	// backfill the cached last message as a real row so the thread opens
	// with history
	for i := range convos {
		msg := models.Message{
			ConversationID: convos[i].ID,
			SenderID:       owner.ID,
			Content:        convos[i].LastMessage,
			CreatedAt:      convos[i].LastMessageTime,
		}
		if err := db.Create(&msg).Error; err != nil {
			return err
		}
	}
	return nil
}

// clearData hard-deletes seedable tables in FK order.
func clearData(db *gorm.DB) error {
	tables := []interface{}{
		&models.Message{}, &models.Conversation{},
		&models.Like{}, &models.Comment{}, &models.Post{},
		&models.Module{}, &models.Resource{}, &models.CalendarEvent{},
		&models.User{},
	}
	for _, table := range tables {
		if err := db.Unscoped().Where("1 = 1").Delete(table).Error; err != nil {
			return err
		}
	}
	return nil
}
