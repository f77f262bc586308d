package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/facility-service/internal/config"
	"github.com/spec-kit/facility-service/internal/events"
	"github.com/spec-kit/facility-service/internal/persistence"
	"github.com/spec-kit/facility-service/internal/repository"
)

const (
	superAdminID = "1"
	johnID       = "2"
	sarahID      = "3"
	mikeID       = "4"
	emilyID      = "5"
	mitchellID   = "6"
	rodriguezID  = "7"

	seedPassword = "password123"
)

var fixedNow = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) types() []events.EventType {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]events.EventType, 0, len(d.events))
	for _, e := range d.events {
		out = append(out, e.Type)
	}
	return out
}

type testEnv struct {
	users      repository.UserRepository
	issues     repository.IssueRepository
	dispatcher *recordingDispatcher
	issueSvc   *IssueService
	userSvc    *UserService
	authSvc    *AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	env := &testEnv{
		users:      repository.NewMemoryUserRepository(),
		issues:     repository.NewMemoryIssueRepository(),
		dispatcher: &recordingDispatcher{},
	}
	opts := persistence.SeedOptions{DefaultPassword: seedPassword, BcryptCost: bcrypt.MinCost}
	require.NoError(t, persistence.Seed(ctx, env.users, env.issues, opts, zap.NewNop()))

	clock := func() time.Time { return fixedNow }
	env.issueSvc = NewIssueService(IssueDependencies{
		IssueRepo:  env.issues,
		UserRepo:   env.users,
		Dispatcher: env.dispatcher,
		Clock:      clock,
	})
	env.userSvc = NewUserService(UserDependencies{UserRepo: env.users})
	env.authSvc = NewAuthService(config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 15,
		BcryptCost:            bcrypt.MinCost,
	}, AuthDependencies{UserRepo: env.users, Clock: clock})
	return env
}
