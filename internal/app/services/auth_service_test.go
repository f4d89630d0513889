package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type fakeTokenStore struct {
	deletions chan struct{}
	revoked   []int64
}

func (f *fakeTokenStore) CreateToken(ctx context.Context, token string, userID int64, expiryDate time.Time) error {
	return nil
}

func (f *fakeTokenStore) GetTokenByValue(ctx context.Context, token string) (int64, error) {
	return 0, nil
}

func (f *fakeTokenStore) RevokeToken(ctx context.Context, token string) error {
	return nil
}

func (f *fakeTokenStore) RevokeAllUserTokens(ctx context.Context, userID int64) error {
	f.revoked = append(f.revoked, userID)
	return nil
}

func (f *fakeTokenStore) DeleteExpiredTokens(ctx context.Context) (int64, error) {
	select {
	case f.deletions <- struct{}{}:
	default:
	}
	return 1, nil
}

func TestStartTokenCleanupPurgesOnInterval(t *testing.T) {
	store := &fakeTokenStore{deletions: make(chan struct{}, 1)}
	svc := NewAuthService(nil, store, nil, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.StartTokenCleanup(ctx, 5*time.Millisecond)

	select {
	case <-store.deletions:
	case <-time.After(2 * time.Second):
		t.Fatal("expired token cleanup never ran")
	}
}

func TestStartTokenCleanupStopsOnCancel(t *testing.T) {
	store := &fakeTokenStore{deletions: make(chan struct{}, 1)}
	svc := NewAuthService(nil, store, nil, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	svc.StartTokenCleanup(ctx, 5*time.Millisecond)

	select {
	case <-store.deletions:
	case <-time.After(2 * time.Second):
		t.Fatal("expired token cleanup never ran")
	}

	cancel()
	// Let the loop observe the cancellation, then drain any tick that was
	// already in flight.
	time.Sleep(20 * time.Millisecond)
	select {
	case <-store.deletions:
	default:
	}

	select {
	case <-store.deletions:
		t.Fatal("cleanup kept running after cancel")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestLogoutRevokesAllUserTokens(t *testing.T) {
	store := &fakeTokenStore{deletions: make(chan struct{}, 1)}
	svc := NewAuthService(nil, store, nil, zerolog.Nop())

	assert.NoError(t, svc.Logout(context.Background(), 9))
	assert.Equal(t, []int64{9}, store.revoked)
}
