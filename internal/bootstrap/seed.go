package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/mladjabiznis1-source/sales-tracker/internal/config"
	"github.com/mladjabiznis1-source/sales-tracker/internal/domain"
	"github.com/mladjabiznis1-source/sales-tracker/internal/password"
	"github.com/mladjabiznis1-source/sales-tracker/internal/repository"
)

// EnsureSeedUser creates the configured seed account on startup if missing.
// Skipped entirely when SEED_EMAIL is unset.
func EnsureSeedUser(lc fx.Lifecycle, cfg config.Config, users repository.UserRepository, node *snowflake.Node, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return ensureSeedUser(ctx, cfg, users, node, logger)
		},
	})
}

func ensureSeedUser(ctx context.Context, cfg config.Config, users repository.UserRepository, node *snowflake.Node, logger *zap.Logger) error {
	email := strings.ToLower(strings.TrimSpace(cfg.SeedEmail))
	if email == "" {
		return nil
	}
	if strings.TrimSpace(cfg.SeedPassword) == "" {
		return fmt.Errorf("SEED_PASSWORD is required when SEED_EMAIL is set")
	}

	if _, err := users.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("seed lookup user: %w", err)
	}

	hashed, err := password.Hash(cfg.SeedPassword)
	if err != nil {
		return fmt.Errorf("seed hash password: %w", err)
	}

	created, err := users.Create(ctx, domain.User{
		ID:           node.Generate().Int64(),
		Email:        email,
		PasswordHash: hashed,
		Name:         cfg.SeedName,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("seed create user: %w", err)
	}

	if logger != nil {
		logger.Info("seed user created",
			zap.String("email", created.Email),
			zap.Int64("user_id", created.ID),
		)
	}
	return nil
}
