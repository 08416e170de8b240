package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"
	"github.com/redis/go-redis/v9"

	"github.com/wrale/tiktok-api-v2/cmd/tiktok-oauth-web/handlers/common"
	"github.com/wrale/tiktok-api-v2/internal/state"
	"github.com/wrale/tiktok-api-v2/pkg/apis"
	"github.com/wrale/tiktok-api-v2/pkg/endpoint"
	"github.com/wrale/tiktok-api-v2/pkg/oauth"
)

// mockTikTok serves the token, revoke, user info and video list endpoints
type mockTikTok struct {
	*httptest.Server

	mu          sync.Mutex
	tokenForms  []url.Values
	revoked     []string
	videoBodies []string

	userStatus int
	userBody   string
}

func newMockTikTok(t *testing.T) *mockTikTok {
	t.Helper()
	m := &mockTikTok{
		userStatus: http.StatusOK,
		userBody:   `{"data":{"user":{"open_id":"open-1","display_name":"Ann"}},"error":{"code":"ok"}}`,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v2/oauth/token/", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		m.mu.Lock()
		m.tokenForms = append(m.tokenForms, r.PostForm)
		m.mu.Unlock()
		io.WriteString(w, `{"open_id":"open-1","scope":"user.info.basic,video.list","access_token":"act.1",
			"expires_in":86400,"refresh_token":"rft.1","refresh_expires_in":31536000,"token_type":"Bearer"}`)
	})
	mux.HandleFunc("/v2/oauth/revoke/", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		m.mu.Lock()
		m.revoked = append(m.revoked, r.PostForm.Get("token"))
		m.mu.Unlock()
	})
	mux.HandleFunc("/v2/user/info/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(m.userStatus)
		io.WriteString(w, m.userBody)
	})
	mux.HandleFunc("/v2/video/list/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer act.1" {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"error":{"code":"access_token_invalid","message":"bad token","log_id":"L1"}}`)
			return
		}
		data, _ := io.ReadAll(r.Body)
		m.mu.Lock()
		m.videoBodies = append(m.videoBodies, string(data))
		m.mu.Unlock()
		io.WriteString(w, `{"data":{"videos":[{"id":"v1"}],"cursor":99,"has_more":false},"error":{"code":"ok"}}`)
	})

	m.Server = httptest.NewServer(mux)
	t.Cleanup(m.Close)
	return m
}

type testEnv struct {
	srv    *server
	tiktok *mockTikTok
	redis  *miniredis.Miniredis
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tiktok := newMockTikTok(t)
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	cfg := Config{
		ClientKey:    "awkey",
		ClientSecret: "secret",
		CallbackURL:  "http://localhost:8080/oauth",
		StateTTL:     time.Minute,
		APITimeout:   5 * time.Second,
	}
	logger := log.New(io.Discard)

	oauthManager, err := oauth.NewManager(cfg.Credentials(),
		[]oauth.Scope{oauth.ScopeUserInfoBasic, oauth.ScopeVideoList},
		oauth.WithAuthURL(tiktok.URL+"/v2/auth/authorize/"),
		oauth.WithTokenURL(tiktok.URL+"/v2/oauth/token/"),
		oauth.WithRevokeURL(tiktok.URL+"/v2/oauth/revoke/"),
	)
	if err != nil {
		t.Fatal(err)
	}

	endpoints := endpoint.NewConfig()
	endpoints.Set(tiktok.URL + "/v2")

	srv, err := newServer(cfg, logger,
		state.NewManager(state.NewRedisStore(redisClient), cfg.StateTTL, false),
		oauthManager,
		&apis.Client{HTTP: tiktok.Client(), Endpoint: endpoints},
	)
	if err != nil {
		t.Fatalf("newServer() error = %v", err)
	}
	return &testEnv{srv: srv, tiktok: tiktok, redis: mr}
}

func (e *testEnv) do(method, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, target, nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.srv.router.ServeHTTP(w, r)
	return w
}

func cookieFrom(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("response has no %s cookie", name)
	return nil
}

var stateParam = regexp.MustCompile(`state=([A-Za-z0-9_-]+)`)

// begin loads the index page and returns the CSRF cookie it set
func (e *testEnv) begin(t *testing.T) *http.Cookie {
	t.Helper()
	w := e.do(http.MethodGet, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("GET / status = %d", w.Code)
	}
	return cookieFrom(t, w, state.CookieName)
}

func TestIndex(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	csrf := cookieFrom(t, w, state.CookieName)
	if !csrf.HttpOnly {
		t.Error("csrf cookie is not HttpOnly")
	}

	body := w.Body.String()
	m := stateParam.FindStringSubmatch(body)
	if m == nil || m[1] != csrf.Value {
		t.Errorf("page state %v does not match cookie %q", m, csrf.Value)
	}
	for _, want := range []string{"code_challenge_method=S256", "data:image/png;base64,", "<code>video.list</code>"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}

	if !env.redis.Exists("state:" + csrf.Value) {
		t.Error("attempt not persisted in redis")
	}
}

func TestCallback(t *testing.T) {
	env := newTestEnv(t)
	csrf := env.begin(t)

	w := env.do(http.MethodGet, "/oauth?code=auth-code&state="+csrf.Value, csrf)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var got struct {
		Token tokenSummary `json:"token"`
		User  struct {
			OpenID      string `json:"open_id"`
			DisplayName string `json:"display_name"`
		} `json:"user"`
	}
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if got.User.OpenID != "open-1" || got.User.DisplayName != "Ann" {
		t.Errorf("user = %+v", got.User)
	}
	if diff := cmp.Diff([]string{"user.info.basic", "video.list"}, got.Token.Scopes); diff != "" {
		t.Errorf("scopes mismatch (-want +got):\n%s", diff)
	}
	if strings.Contains(w.Body.String(), "act.1") {
		t.Error("response leaks the access token")
	}

	if access := cookieFrom(t, w, accessTokenCookie); access.Value != "act.1" || !access.HttpOnly {
		t.Errorf("access cookie = %+v", access)
	}

	if len(env.tiktok.tokenForms) != 1 {
		t.Fatalf("token endpoint called %d times", len(env.tiktok.tokenForms))
	}
	form := env.tiktok.tokenForms[0]
	if form.Get("code") != "auth-code" || form.Get("code_verifier") == "" {
		t.Errorf("token form = %v", form)
	}
}

func TestCallback_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		query      func(csrf *http.Cookie) string
		sendCookie bool
		wantStatus int
		wantText   string
	}{
		{
			name:       "state mismatch",
			query:      func(*http.Cookie) string { return "code=c&state=forged" },
			sendCookie: true,
			wantStatus: http.StatusForbidden,
			wantText:   "not started from this browser",
		},
		{
			name:       "missing cookie",
			query:      func(c *http.Cookie) string { return "code=c&state=" + c.Value },
			wantStatus: http.StatusForbidden,
			wantText:   "Authorization Failed",
		},
		{
			name:       "denied by user",
			query:      func(*http.Cookie) string { return "error=access_denied&error_description=User+cancelled" },
			sendCookie: true,
			wantStatus: http.StatusForbidden,
			wantText:   "User cancelled",
		},
		{
			name:       "missing code",
			query:      func(c *http.Cookie) string { return "state=" + c.Value },
			sendCookie: true,
			wantStatus: http.StatusBadRequest,
			wantText:   "invalid code",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			csrf := env.begin(t)

			var cookies []*http.Cookie
			if tt.sendCookie {
				cookies = append(cookies, csrf)
			}
			w := env.do(http.MethodGet, "/oauth?"+tt.query(csrf), cookies...)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if !strings.Contains(w.Body.String(), tt.wantText) {
				t.Errorf("body missing %q:\n%s", tt.wantText, w.Body.String())
			}
			if len(env.tiktok.tokenForms) != 0 {
				t.Error("rejected callback reached the token endpoint")
			}
		})
	}
}

func TestCallback_Replay(t *testing.T) {
	env := newTestEnv(t)
	csrf := env.begin(t)
	target := "/oauth?code=auth-code&state=" + csrf.Value

	if w := env.do(http.MethodGet, target, csrf); w.Code != http.StatusOK {
		t.Fatalf("first callback status = %d", w.Code)
	}
	w := env.do(http.MethodGet, target, csrf)
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "already used") {
		t.Errorf("replayed callback status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestCallback_UserInfoError(t *testing.T) {
	env := newTestEnv(t)
	env.tiktok.userStatus = http.StatusForbidden
	env.tiktok.userBody = `{"error":{"code":"scope_not_authorized","message":"missing scope","log_id":"L7"}}`
	csrf := env.begin(t)

	w := env.do(http.MethodGet, "/oauth?code=c&state="+csrf.Value, csrf)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}

	var got common.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	want := common.ErrorResponse{Error: "scope_not_authorized", ErrorDescription: "missing scope", LogID: "L7"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("error mismatch (-want +got):\n%s", diff)
	}
}

func TestVideos(t *testing.T) {
	access := &http.Cookie{Name: accessTokenCookie, Value: "act.1"}

	tests := []struct {
		name       string
		target     string
		cookies    []*http.Cookie
		wantStatus int
		wantBody   string
	}{
		{
			name:       "not signed in",
			target:     "/videos",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "first page",
			target:     "/videos",
			cookies:    []*http.Cookie{access},
			wantStatus: http.StatusOK,
			wantBody:   `{}`,
		},
		{
			name:       "cursor forwarded",
			target:     "/videos?cursor=1700000000&max_count=5",
			cookies:    []*http.Cookie{access},
			wantStatus: http.StatusOK,
			wantBody:   `{"cursor":1700000000,"max_count":5}`,
		},
		{
			name:       "invalid cursor",
			target:     "/videos?cursor=abc",
			cookies:    []*http.Cookie{access},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "stale token",
			target:     "/videos",
			cookies:    []*http.Cookie{{Name: accessTokenCookie, Value: "old"}},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			w := env.do(http.MethodGet, tt.target, tt.cookies...)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d, body = %s", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantBody == "" {
				if len(env.tiktok.videoBodies) != 0 {
					t.Errorf("video list called with %v", env.tiktok.videoBodies)
				}
				return
			}
			if diff := cmp.Diff([]string{tt.wantBody}, env.tiktok.videoBodies); diff != "" {
				t.Errorf("request body mismatch (-want +got):\n%s", diff)
			}

			var got map[string]any
			if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
				t.Fatal(err)
			}
			data, _ := got["data"].(map[string]any)
			if data["cursor"] != 99.0 {
				t.Errorf("response data = %v", data)
			}
		})
	}
}

func TestRefreshAndLogout(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/refresh", &http.Cookie{Name: refreshTokenCookie, Value: "rft.0"})
	if w.Code != http.StatusOK {
		t.Fatalf("refresh status = %d, body = %s", w.Code, w.Body.String())
	}
	if form := env.tiktok.tokenForms[0]; form.Get("grant_type") != "refresh_token" || form.Get("refresh_token") != "rft.0" {
		t.Errorf("refresh form = %v", form)
	}
	if c := cookieFrom(t, w, accessTokenCookie); c.Value != "act.1" {
		t.Errorf("access cookie after refresh = %q", c.Value)
	}

	w = env.do(http.MethodPost, "/logout", &http.Cookie{Name: accessTokenCookie, Value: "act.1"})
	if w.Code != http.StatusNoContent {
		t.Fatalf("logout status = %d", w.Code)
	}
	if diff := cmp.Diff([]string{"act.1"}, env.tiktok.revoked); diff != "" {
		t.Errorf("revoked mismatch (-want +got):\n%s", diff)
	}
	if c := cookieFrom(t, w, accessTokenCookie); c.MaxAge >= 0 {
		t.Errorf("access cookie not cleared: %+v", c)
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	if w := env.do(http.MethodGet, "/health"); w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}

	env.redis.Close()
	if w := env.do(http.MethodGet, "/health"); w.Code != http.StatusServiceUnavailable {
		t.Errorf("status with redis down = %d, want 503", w.Code)
	}
}
