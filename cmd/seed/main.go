package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/devlinkhq/devlink-api/config"
	"github.com/devlinkhq/devlink-api/internal/domain/entity"
	"github.com/devlinkhq/devlink-api/internal/domain/store"
	pginfra "github.com/devlinkhq/devlink-api/internal/infrastructure/postgres"
	"github.com/devlinkhq/devlink-api/pkg/helpers"
)

// Seeds a demo account with a profile and a couple of posts. Safe to re-run:
// the account is keyed by email and left alone when it already exists.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	st := pginfra.NewDocumentStore(pool)

	email := "demo@devlink.dev"
	hash, err := helpers.HashPassword("demo123")
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	acct := entity.Account{
		ID:       uuid.NewString(),
		Name:     "Demo Developer",
		Email:    email,
		Password: hash,
		Avatar:   helpers.GravatarURL(email),
		Date:     time.Now().UTC(),
	}
	err = st.Create(ctx, store.Users, store.Doc{ID: acct.ID, Key: email, Body: acct})
	switch {
	case err == nil:
		log.Printf("seeded account %s (%s)", acct.Name, email)
	case errors.Is(err, store.ErrDuplicate):
		log.Printf("account %s already seeded", email)
		return
	default:
		log.Fatalf("seed account: %v", err)
	}

	profile := entity.Profile{
		ID:             uuid.NewString(),
		User:           acct.ID,
		Company:        "DevLink",
		Location:       "Remote",
		Status:         "Backend Developer",
		Skills:         []string{"Go", "PostgreSQL", "Redis"},
		Bio:            "Demo profile seeded for local development.",
		GithubUsername: "octocat",
		Experience:     []entity.Experience{},
		Education:      []entity.Education{},
		Date:           time.Now().UTC(),
	}
	if err := st.Create(ctx, store.Profiles, store.Doc{ID: profile.ID, Key: acct.ID, Body: profile}); err != nil {
		log.Fatalf("seed profile: %v", err)
	}

	for _, text := range []string{
		"Hello from the seeded demo account!",
		"Second demo post so the feed has something to show.",
	} {
		post := entity.Post{
			ID:       uuid.NewString(),
			User:     acct.ID,
			Text:     text,
			Name:     acct.Name,
			Avatar:   acct.Avatar,
			Likes:    []entity.Like{},
			Comments: []entity.Comment{},
			Date:     time.Now().UTC(),
		}
		if err := st.Create(ctx, store.Posts, store.Doc{ID: post.ID, Body: post}); err != nil {
			log.Fatalf("seed post: %v", err)
		}
	}
	log.Println("seed complete")
}
