// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"memoria/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	rand *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:   db,
		opts: opts,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// pastTime returns a timestamp spread over the recent past so listings
// look lived-in rather than created in one burst.
func (f *Factory) pastTime() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.rand.Intn(maxDays)
	hoursBack := f.rand.Intn(24)
	minsBack := f.rand.Intn(60)
	return time.Now().
		Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)
}

// CreateUser constructs and persists a sample user.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Name:  fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
		Email: gofakeit.Email(),
		Bio:   gofakeit.Sentence(10),
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateCommunity constructs and persists a community owned by the given user.
func (f *Factory) CreateCommunity(owner *models.User, overrides ...func(*models.Community)) (*models.Community, error) {
	community := &models.Community{
		OwnerID:     owner.ID,
		Name:        fmt.Sprintf("%s %s", gofakeit.HackerAdjective(), gofakeit.HackerNoun()),
		Description: gofakeit.Sentence(12),
		Status:      models.CommunityStatusActive,
		CreatedAt:   f.pastTime(),
	}
	for _, override := range overrides {
		override(community)
	}
	if err := f.db.Create(community).Error; err != nil {
		return nil, err
	}
	return community, nil
}

// CreatePost constructs and persists a post by the author in the community.
func (f *Factory) CreatePost(community *models.Community, author *models.User, overrides ...func(*models.CommunityPost)) (*models.CommunityPost, error) {
	post := &models.CommunityPost{
		CommunityID: community.ID,
		AuthorID:    author.ID,
		Content:     gofakeit.Paragraph(1, 3, 8, "\n"),
		CreatedAt:   f.pastTime(),
	}
	for _, override := range overrides {
		override(post)
	}
	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateComment constructs and persists a comment on the post.
func (f *Factory) CreateComment(post *models.CommunityPost, user *models.User) (*models.CommunityPostComment, error) {
	comment := &models.CommunityPostComment{
		PostID:    post.ID,
		UserID:    user.ID,
		Text:      gofakeit.Sentence(f.rand.Intn(12) + 3),
		CreatedAt: f.pastTime(),
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateLike constructs and persists a like on the post. Duplicate likes by
// the same user hit the unique index and are skipped.
func (f *Factory) CreateLike(post *models.CommunityPost, user *models.User) error {
	like := &models.CommunityPostLike{
		PostID:    post.ID,
		UserID:    user.ID,
		CreatedAt: f.pastTime(),
	}
	err := f.db.Create(like).Error
	if err != nil && isUniqueViolation(err) {
		return nil
	}
	return err
}

// CreateReport constructs and persists a pending report against a post.
func (f *Factory) CreateReport(reporter *models.User, post *models.CommunityPost) (*models.Report, error) {
	reasons := []string{
		models.ReportReasonSpam,
		models.ReportReasonInappropriate,
		models.ReportReasonHarassment,
		models.ReportReasonOther,
	}
	report := &models.Report{
		ReporterID:   reporter.ID,
		ReportedType: models.ReportedTypePost,
		ReportedID:   post.ID,
		Reason:       reasons[f.rand.Intn(len(reasons))],
		Description:  gofakeit.Sentence(8),
		Status:       models.ReportStatusPending,
		CreatedAt:    f.pastTime(),
	}
	if err := f.db.Create(report).Error; err != nil {
		return nil, err
	}
	return report, nil
}
