package persistence

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/spec-kit/facility-service/internal/auth"
	"github.com/spec-kit/facility-service/internal/domain"
	"github.com/spec-kit/facility-service/internal/repository"
)

//go:embed seed/fixtures.yaml
var fixturesYAML []byte

// seedEpoch anchors fixture user timestamps so that their order is stable.
var seedEpoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// Fixtures is the demo data set loaded on a fresh store.
type Fixtures struct {
	Users  []domain.User  `yaml:"users"`
	Issues []domain.Issue `yaml:"issues"`
}

// SeedOptions controls how fixture accounts are provisioned.
type SeedOptions struct {
	DefaultPassword string
	BcryptCost      int
}

// LoadFixtures decodes the embedded fixture file.
func LoadFixtures() (*Fixtures, error) {
	var fx Fixtures
	if err := yaml.Unmarshal(fixturesYAML, &fx); err != nil {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	for i := range fx.Users {
		fx.Users[i].CreatedAt = seedEpoch.Add(time.Duration(i) * time.Minute)
	}
	for i := range fx.Issues {
		fx.Issues[i].UpdatedAt = fx.Issues[i].CreatedAt
	}
	return &fx, nil
}

// Seed populates empty repositories with the fixtures.
func Seed(ctx context.Context, users repository.UserRepository, issues repository.IssueRepository, opts SeedOptions, logger *zap.Logger) error {
	existing, err := users.List(ctx)
	if err != nil {
		return fmt.Errorf("inspect users: %w", err)
	}
	if len(existing) > 0 {
		logger.Info("store already populated; skipping seed", zap.Int("users", len(existing)))
		return nil
	}

	fx, err := LoadFixtures()
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(opts.DefaultPassword, opts.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	for i := range fx.Users {
		user := fx.Users[i]
		user.PasswordHash = hash
		if err := users.Create(ctx, &user); err != nil {
			return fmt.Errorf("seed user %s: %w", user.ID, err)
		}
	}
	for i := range fx.Issues {
		if err := issues.Create(ctx, &fx.Issues[i]); err != nil {
			return fmt.Errorf("seed issue %s: %w", fx.Issues[i].ID, err)
		}
	}

	logger.Info("seeded store", zap.Int("users", len(fx.Users)), zap.Int("issues", len(fx.Issues)))
	return nil
}
