package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"spotisheet/internal/domain"
	"spotisheet/internal/port"
)

type tokenUpdate struct {
	userID       string
	accessToken  string
	refreshToken string
	expiresAt    time.Time
}

type fakeAccountStore struct {
	acct      *domain.Account
	acctErr   error
	updates   []tokenUpdate
	updateErr error
}

func (s *fakeAccountStore) AccountByUserID(_ context.Context, userID string) (*domain.Account, error) {
	if s.acctErr != nil {
		return nil, s.acctErr
	}
	return s.acct, nil
}

func (s *fakeAccountStore) UpdateAccountToken(_ context.Context, userID, accessToken, refreshToken string, expiresAt time.Time) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updates = append(s.updates, tokenUpdate{userID, accessToken, refreshToken, expiresAt})
	return nil
}

type fakeRefresher struct {
	grant *domain.TokenGrant
	err   error
	calls int
}

func (r *fakeRefresher) Refresh(_ context.Context, clientID, clientSecret, refreshToken string) (*domain.TokenGrant, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.grant, nil
}

func testAccount(expiresIn time.Duration) *domain.Account {
	return &domain.Account{
		UserID:            "u1",
		ProviderAccountID: "spotify-u1",
		AccessToken:       "old-access",
		RefreshToken:      "old-refresh",
		ExpiresAt:         time.Now().Add(expiresIn),
	}
}

func TestTokenService(t *testing.T) {
	t.Run("Valid Token Reused Unchanged", func(t *testing.T) {
		store := &fakeAccountStore{}
		refresher := &fakeRefresher{}
		svc := NewTokenService(store, refresher, "id", "secret", time.Second)

		acct := testAccount(5 * time.Second)
		token, err := svc.AccessToken(context.Background(), acct)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if token != "old-access" {
			t.Errorf("expected stored token, got %q", token)
		}
		if refresher.calls != 0 {
			t.Errorf("expected no refresh call, got %d", refresher.calls)
		}
		if len(store.updates) != 0 {
			t.Errorf("expected no persistence, got %d updates", len(store.updates))
		}
	})

	t.Run("Near Expiry Triggers Refresh", func(t *testing.T) {
		store := &fakeAccountStore{}
		newExpiry := time.Now().Add(time.Hour)
		refresher := &fakeRefresher{grant: &domain.TokenGrant{
			AccessToken:  "new-access",
			RefreshToken: "new-refresh",
			ExpiresAt:    newExpiry,
		}}
		svc := NewTokenService(store, refresher, "id", "secret", time.Second)

		acct := testAccount(500 * time.Millisecond)
		token, err := svc.AccessToken(context.Background(), acct)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if token != "new-access" {
			t.Errorf("expected refreshed token, got %q", token)
		}
		if refresher.calls != 1 {
			t.Errorf("expected one refresh call, got %d", refresher.calls)
		}
		if len(store.updates) != 1 {
			t.Fatalf("expected one persisted update, got %d", len(store.updates))
		}
		u := store.updates[0]
		if u.userID != "u1" || u.accessToken != "new-access" || u.refreshToken != "new-refresh" {
			t.Errorf("unexpected persisted update: %+v", u)
		}
		if acct.AccessToken != "new-access" || acct.RefreshToken != "new-refresh" || !acct.ExpiresAt.Equal(newExpiry) {
			t.Errorf("account not mutated in place: %+v", acct)
		}
	})

	t.Run("Missing Refresh Token In Response Keeps Old", func(t *testing.T) {
		store := &fakeAccountStore{}
		refresher := &fakeRefresher{grant: &domain.TokenGrant{
			AccessToken: "new-access",
			ExpiresAt:   time.Now().Add(time.Hour),
		}}
		svc := NewTokenService(store, refresher, "id", "secret", time.Second)

		acct := testAccount(0)
		if _, err := svc.AccessToken(context.Background(), acct); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if store.updates[0].refreshToken != "old-refresh" {
			t.Errorf("expected old refresh token persisted, got %q", store.updates[0].refreshToken)
		}
		if acct.RefreshToken != "old-refresh" {
			t.Errorf("expected old refresh token retained, got %q", acct.RefreshToken)
		}
	})

	t.Run("Persistence Failure Fails The Operation", func(t *testing.T) {
		store := &fakeAccountStore{updateErr: errors.New("no rows affected")}
		refresher := &fakeRefresher{grant: &domain.TokenGrant{
			AccessToken: "new-access",
			ExpiresAt:   time.Now().Add(time.Hour),
		}}
		svc := NewTokenService(store, refresher, "id", "secret", time.Second)

		acct := testAccount(0)
		if _, err := svc.AccessToken(context.Background(), acct); err == nil {
			t.Fatal("expected error when persistence fails")
		}
		if acct.AccessToken != "old-access" {
			t.Errorf("account must not be mutated on failed persistence, got %q", acct.AccessToken)
		}
	})

	t.Run("Refresh Failure Propagates", func(t *testing.T) {
		store := &fakeAccountStore{}
		refresher := &fakeRefresher{err: port.ErrTokenRefresh}
		svc := NewTokenService(store, refresher, "id", "secret", time.Second)

		_, err := svc.AccessToken(context.Background(), testAccount(0))
		if !errors.Is(err, port.ErrTokenRefresh) {
			t.Errorf("expected ErrTokenRefresh, got %v", err)
		}
	})

	t.Run("Missing Client Credentials Fail Fast", func(t *testing.T) {
		store := &fakeAccountStore{}
		refresher := &fakeRefresher{}
		svc := NewTokenService(store, refresher, "", "", time.Second)

		_, err := svc.AccessToken(context.Background(), testAccount(0))
		if !errors.Is(err, port.ErrConfiguration) {
			t.Errorf("expected ErrConfiguration, got %v", err)
		}
		if refresher.calls != 0 {
			t.Errorf("expected no network call, got %d", refresher.calls)
		}
	})
}
