package seed

import (
	"fmt"
	"log"
	"strings"

	"memoria/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder.
type Options struct {
	NumUsers       int
	NumCommunities int
	NumPosts       int
	ShouldClean    bool
	SkipBcrypt     bool
	// MaxDays bounds how far in the past generated timestamps spread.
	MaxDays int
}

// Seed populates the database with demo data.
func Seed(db *gorm.DB, opts Options) error {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 20
	}
	if opts.NumCommunities <= 0 {
		opts.NumCommunities = 6
	}
	if opts.NumPosts <= 0 {
		opts.NumPosts = 80
	}

	log.Printf("starting database seeding: %d users, %d communities, %d posts",
		opts.NumUsers, opts.NumCommunities, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Printf("warning: could not clear all existing data, continuing anyway: %v", err)
		}
	}

	f := NewFactory(db, opts)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("created %d users", len(users))

	communities := make([]*models.Community, 0, opts.NumCommunities)
	for i := 0; i < opts.NumCommunities; i++ {
		owner := users[i%len(users)]
		community, err := f.CreateCommunity(owner, func(c *models.Community) {
			// A slice of communities carries the sensitive-content flag so
			// the filtered listing path has data to work with.
			if i%5 == 4 {
				c.IsFiltered = true
				c.FilterReason = "Sensitive content"
			}
		})
		if err != nil {
			return fmt.Errorf("failed to create community: %w", err)
		}
		communities = append(communities, community)
	}
	log.Printf("created %d communities", len(communities))

	posts := make([]*models.CommunityPost, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		community := communities[f.rand.Intn(len(communities))]
		author := users[f.rand.Intn(len(users))]
		post, err := f.CreatePost(community, author)
		if err != nil {
			return fmt.Errorf("failed to create post: %w", err)
		}
		posts = append(posts, post)
	}
	log.Printf("created %d posts", len(posts))

	var comments, likes int
	for _, post := range posts {
		for i := 0; i < f.rand.Intn(4); i++ {
			if _, err := f.CreateComment(post, users[f.rand.Intn(len(users))]); err != nil {
				return fmt.Errorf("failed to create comment: %w", err)
			}
			comments++
		}
		for i := 0; i < f.rand.Intn(6); i++ {
			if err := f.CreateLike(post, users[f.rand.Intn(len(users))]); err != nil {
				return fmt.Errorf("failed to create like: %w", err)
			}
			likes++
		}
	}
	log.Printf("created %d comments and up to %d likes", comments, likes)

	// A handful of pending reports so the admin dashboard is not empty.
	numReports := len(posts) / 10
	for i := 0; i < numReports; i++ {
		post := posts[f.rand.Intn(len(posts))]
		reporter := users[f.rand.Intn(len(users))]
		if reporter.ID == post.AuthorID {
			continue
		}
		if _, err := f.CreateReport(reporter, post); err != nil {
			if isUniqueViolation(err) {
				continue
			}
			return fmt.Errorf("failed to create report: %w", err)
		}
	}

	log.Println("database seeding complete")
	return nil
}

// clearData removes seeded rows in dependency order.
func clearData(db *gorm.DB) error {
	tables := []any{
		&models.Report{},
		&models.Notification{},
		&models.CommunityPostLike{},
		&models.CommunityPostComment{},
		&models.CommunityPost{},
		&models.CommunityBlock{},
		&models.Community{},
		&models.User{},
	}
	for _, table := range tables {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(table).Error; err != nil {
			return err
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
