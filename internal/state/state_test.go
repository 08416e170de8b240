package state

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/wrale/tiktok-api-v2/pkg/oauth"
)

// mockStore implements Store interface for testing
type mockStore struct {
	attempts map[string]Attempt
	err      error
}

func newMockStore() *mockStore {
	return &mockStore{
		attempts: make(map[string]Attempt),
	}
}

func (m *mockStore) Save(ctx context.Context, a Attempt, expiresIn time.Duration) error {
	if m.err != nil {
		return m.err
	}
	m.attempts[a.CSRFToken] = a
	return nil
}

func (m *mockStore) Take(ctx context.Context, csrfToken string) (Attempt, error) {
	if m.err != nil {
		return Attempt{}, m.err
	}
	a, ok := m.attempts[csrfToken]
	if !ok {
		return Attempt{}, ErrNotFound
	}
	delete(m.attempts, csrfToken)
	return a, nil
}

func (m *mockStore) CheckHealth(ctx context.Context) error {
	return m.err
}

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestManager(store Store) *Manager {
	m := NewManager(store, 10*time.Minute, true)
	m.now = func() time.Time { return fixedNow }
	return m
}

func findCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatalf("response has no %s cookie", CookieName)
	return nil
}

func TestManager_Begin(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		store := newMockStore()
		manager := newTestManager(store)
		rec := httptest.NewRecorder()

		req := oauth.AuthorizationRequest{URL: "https://x", CSRFToken: "tok", CodeVerifier: "ver"}
		if err := manager.Begin(ctx, rec, req); err != nil {
			t.Fatalf("Begin() error = %v", err)
		}

		want := Attempt{CSRFToken: "tok", CodeVerifier: "ver", CreatedAt: fixedNow}
		if diff := cmp.Diff(want, store.attempts["tok"]); diff != "" {
			t.Errorf("stored attempt mismatch (-want +got):\n%s", diff)
		}

		c := findCookie(t, rec)
		if c.Value != "tok" || !c.HttpOnly || !c.Secure || c.MaxAge != 600 || c.SameSite != http.SameSiteLaxMode {
			t.Errorf("cookie = %+v", c)
		}
	})

	t.Run("empty_token", func(t *testing.T) {
		manager := newTestManager(newMockStore())
		err := manager.Begin(ctx, httptest.NewRecorder(), oauth.AuthorizationRequest{})
		if !errors.Is(err, ErrEmptyToken) {
			t.Errorf("Begin() error = %v, want ErrEmptyToken", err)
		}
	})

	t.Run("store_error", func(t *testing.T) {
		store := newMockStore()
		store.err = errors.New("store error")
		rec := httptest.NewRecorder()

		if err := newTestManager(store).Begin(ctx, rec, oauth.AuthorizationRequest{CSRFToken: "tok"}); err == nil {
			t.Error("Begin() expected error with bad store")
		}
		if len(rec.Result().Cookies()) != 0 {
			t.Error("cookie set although the attempt was not saved")
		}
	})
}

func TestManager_Complete(t *testing.T) {
	ctx := context.Background()

	callback := func(cookie string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/oauth", nil)
		if cookie != "" {
			r.AddCookie(&http.Cookie{Name: CookieName, Value: cookie})
		}
		return r
	}

	tests := []struct {
		name    string
		cookie  string
		state   string
		want    Attempt
		wantErr error
	}{
		{
			name:   "valid",
			cookie: "tok",
			state:  "tok",
			want:   Attempt{CSRFToken: "tok", CodeVerifier: "ver", CreatedAt: fixedNow},
		},
		{
			name:    "state_mismatch",
			cookie:  "tok",
			state:   "forged",
			wantErr: oauth.ErrStateMismatch,
		},
		{
			name:    "missing_cookie",
			state:   "tok",
			wantErr: oauth.ErrStateMismatch,
		},
		{
			name:    "missing_state",
			cookie:  "tok",
			wantErr: oauth.ErrStateMismatch,
		},
		{
			name:    "unknown_attempt",
			cookie:  "other",
			state:   "other",
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockStore()
			manager := newTestManager(store)
			store.attempts["tok"] = Attempt{CSRFToken: "tok", CodeVerifier: "ver", CreatedAt: fixedNow}

			rec := httptest.NewRecorder()
			got, err := manager.Complete(ctx, rec, callback(tt.cookie), tt.state)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Complete() error = %v, want %v", err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("attempt mismatch (-want +got):\n%s", diff)
			}

			if c := findCookie(t, rec); c.MaxAge >= 0 {
				t.Errorf("cookie not cleared: %+v", c)
			}

			if tt.wantErr != nil {
				if _, ok := store.attempts["tok"]; !ok {
					t.Error("rejected callback consumed the attempt")
				}
			}
		})
	}
}

func TestManager_CompleteSingleUse(t *testing.T) {
	ctx := context.Background()
	store := newMockStore()
	manager := newTestManager(store)

	if err := manager.Begin(ctx, httptest.NewRecorder(), oauth.AuthorizationRequest{CSRFToken: "tok"}); err != nil {
		t.Fatal(err)
	}

	r := httptest.NewRequest(http.MethodGet, "/oauth", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: "tok"})

	if _, err := manager.Complete(ctx, httptest.NewRecorder(), r, "tok"); err != nil {
		t.Fatalf("first Complete() error = %v", err)
	}
	if _, err := manager.Complete(ctx, httptest.NewRecorder(), r, "tok"); !errors.Is(err, ErrNotFound) {
		t.Errorf("replayed Complete() error = %v, want ErrNotFound", err)
	}
}

func TestManager_CheckHealth(t *testing.T) {
	store := newMockStore()
	manager := newTestManager(store)

	if err := manager.CheckHealth(context.Background()); err != nil {
		t.Errorf("CheckHealth() error = %v", err)
	}

	store.err = errors.New("down")
	if err := manager.CheckHealth(context.Background()); err == nil {
		t.Error("CheckHealth() expected error with bad store")
	}
}
