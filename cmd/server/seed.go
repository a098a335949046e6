package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/taskboard/taskboard-api/internal/domain"
	"github.com/taskboard/taskboard-api/internal/platform/postgres"
	"github.com/taskboard/taskboard-api/internal/service/auth"
	"github.com/taskboard/taskboard-api/internal/store"
)

// seedUser describes one development seed account.
type seedUser struct {
	username string
	password string
	role     domain.Role
}

// seedUsers creates the development accounts if they are absent, all within
// one transaction. Guarded by the database.seed_users config flag; never
// enable it in production.
func seedUsers(ctx context.Context, db *sql.DB, hasher auth.PasswordHasher, logger *slog.Logger) error {
	seeds := []seedUser{
		{username: "root", password: "rootpassword123", role: domain.RoleAdmin},
		{username: "alice", password: "alicepassword123", role: domain.RoleUser},
	}

	userStore := postgres.NewPostgresUserStore(db, logger)

	return store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		users := userStore.WithTx(tx)

		for _, seed := range seeds {
			exists, err := users.ExistsByUsername(ctx, seed.username)
			if err != nil {
				return fmt.Errorf("failed to check seed user %q: %w", seed.username, err)
			}
			if exists {
				continue
			}

			hashed, err := hasher.Hash(seed.password)
			if err != nil {
				return fmt.Errorf("failed to hash seed password for %q: %w", seed.username, err)
			}

			user, err := domain.NewUser(seed.username, hashed, seed.role)
			if err != nil {
				return fmt.Errorf("invalid seed user %q: %w", seed.username, err)
			}

			if err := users.Create(ctx, user); err != nil {
				return fmt.Errorf("failed to create seed user %q: %w", seed.username, err)
			}

			logger.Warn("development seed user created",
				"username", seed.username,
				"role", string(seed.role))
		}

		return nil
	})
}
