package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/samber/lo"

	"github.com/wrale/tiktok-api-v2/cmd/tiktok-oauth-web/handlers/common"
	"github.com/wrale/tiktok-api-v2/internal/state"
	"github.com/wrale/tiktok-api-v2/internal/templates"
	"github.com/wrale/tiktok-api-v2/internal/validation"
	"github.com/wrale/tiktok-api-v2/pkg/apis"
	"github.com/wrale/tiktok-api-v2/pkg/envelope"
	"github.com/wrale/tiktok-api-v2/pkg/oauth"
	"github.com/wrale/tiktok-api-v2/pkg/responses"
)

const (
	accessTokenCookie  = "tiktok_access_token"
	refreshTokenCookie = "tiktok_refresh_token"
)

// tokenSummary describes a token without exposing it
type tokenSummary struct {
	OpenID           string    `json:"open_id"`
	Scopes           []string  `json:"scopes"`
	ExpiresAt        time.Time `json:"expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

// Index page starts a PKCE authorization attempt
func (s *server) handleIndex() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := s.oauth.AuthorizationURLWithPKCE("")
		if err != nil {
			s.logger.Error("Building authorization URL", "err", err)
			s.renderError(w, http.StatusInternalServerError, "Something Went Wrong", "Unable to start sign-in")
			return
		}

		if err := s.state.Begin(r.Context(), w, req); err != nil {
			s.logger.Error("Saving authorization attempt", "err", err)
			s.renderError(w, http.StatusServiceUnavailable, "Something Went Wrong", "Unable to start sign-in")
			return
		}

		qr, err := templates.GenerateQRCode(req.URL)
		if err != nil {
			s.logger.Warn("Generating QR code", "err", err)
		}

		data := templates.IndexData{
			AuthURL: req.URL,
			QRCode:  qr,
			Scopes: lo.Map(s.oauth.Scopes(), func(sc oauth.Scope, _ int) string {
				return sc.String()
			}),
		}
		if err := s.templates.RenderIndex(w, data); err != nil {
			s.logger.Error("Rendering index page", "err", err)
			http.Error(w, "error rendering page", http.StatusInternalServerError)
		}
	}
}

// Callback handler completes the authorization attempt and shows the user
func (s *server) handleCallback() http.HandlerFunc {
	type callbackResponse struct {
		Token tokenSummary    `json:"token"`
		User  *responses.User `json:"user"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		cb, err := validation.ParseCallback(r.URL.Query())
		if err != nil {
			var denied *validation.DeniedError
			if errors.As(err, &denied) {
				message := denied.Description
				if message == "" {
					message = denied.Code
				}
				s.renderError(w, http.StatusForbidden, "Authorization Denied", message)
				return
			}
			s.renderError(w, http.StatusBadRequest, "Invalid Request", err.Error())
			return
		}

		attempt, err := s.state.Complete(r.Context(), w, r, cb.State)
		switch {
		case errors.Is(err, oauth.ErrStateMismatch):
			s.logger.Warn("Rejected callback with mismatched state", "remote", r.RemoteAddr)
			s.renderError(w, http.StatusForbidden, "Authorization Failed", "This sign-in link was not started from this browser")
			return
		case errors.Is(err, state.ErrNotFound):
			s.renderError(w, http.StatusBadRequest, "Authorization Expired", "This sign-in attempt expired or was already used")
			return
		case err != nil:
			s.logger.Error("Loading authorization attempt", "err", err)
			s.renderError(w, http.StatusServiceUnavailable, "Something Went Wrong", "Unable to complete sign-in")
			return
		}

		issued := time.Now()
		token, err := s.oauth.Exchange(r.Context(), cb.Code, attempt.CodeVerifier)
		if err != nil {
			s.logger.Error("Exchanging authorization code", "err", err)
			message := "Unable to complete sign-in"
			var oauthErr *envelope.OAuthError
			if errors.As(err, &oauthErr) && oauthErr.Payload.ErrorDescription != "" {
				message = oauthErr.Payload.ErrorDescription
			}
			s.renderError(w, http.StatusBadGateway, "Authorization Failed", message)
			return
		}
		s.setTokenCookies(w, token, issued)

		info, err := apis.NewUserInfo(responses.AllUserFields(), s.callOptions()).
			WithClient(s.api).
			Execute(r.Context(), token.AccessToken)
		if err != nil {
			s.writeUpstreamError(w, err)
			return
		}

		resp := callbackResponse{Token: s.summarize(token, issued)}
		if info.Data != nil {
			resp.User = info.Data.User
		}
		common.WriteJSON(w, http.StatusOK, resp)
	}
}

// Videos handler lists one page of the signed-in user's videos
func (s *server) handleVideos() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		access, ok := readCookie(r, accessTokenCookie)
		if !ok {
			common.WriteError(w, http.StatusUnauthorized, "unauthorized", "sign in first")
			return
		}

		q := r.URL.Query()
		cursor, err := validation.ParseCursor(q.Get("cursor"))
		if err != nil {
			common.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		maxCount, err := validation.ParseMaxCount(q.Get("max_count"))
		if err != nil {
			common.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}

		body := apis.VideoListBody{Cursor: cursor, MaxCount: maxCount}
		resp, err := apis.NewVideoList(responses.AllVideoFields(), body, s.callOptions()).
			WithClient(s.api).
			Execute(r.Context(), access)
		if err != nil {
			s.writeUpstreamError(w, err)
			return
		}
		common.WriteJSON(w, http.StatusOK, resp)
	}
}

// Refresh handler replaces the token cookies with refreshed tokens
func (s *server) handleRefresh() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		refresh, ok := readCookie(r, refreshTokenCookie)
		if !ok {
			common.WriteError(w, http.StatusUnauthorized, "unauthorized", "no refresh token")
			return
		}

		issued := time.Now()
		token, err := s.oauth.Refresh(r.Context(), refresh)
		if err != nil {
			s.writeUpstreamError(w, err)
			return
		}
		s.setTokenCookies(w, token, issued)
		common.WriteJSON(w, http.StatusOK, s.summarize(token, issued))
	}
}

// Logout handler revokes the access token and clears the token cookies
func (s *server) handleLogout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		access, ok := readCookie(r, accessTokenCookie)
		s.clearTokenCookies(w)
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		if err := s.oauth.Revoke(r.Context(), access); err != nil {
			s.writeUpstreamError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *server) renderError(w http.ResponseWriter, status int, title, message string) {
	if err := s.templates.RenderError(w, templates.ErrorData{
		Title:   title,
		Message: message,
		Status:  status,
	}); err != nil {
		http.Error(w, "error rendering page", http.StatusInternalServerError)
	}
}

// writeUpstreamError maps a failed TikTok call onto a JSON error response
func (s *server) writeUpstreamError(w http.ResponseWriter, err error) {
	var (
		apiErr   *envelope.APIError
		oauthErr *envelope.OAuthError
		opaque   *envelope.OpaqueError
	)

	switch {
	case errors.Is(err, envelope.ErrTimeout):
		s.logger.Warn("TikTok call timed out", "err", err)
		common.WriteError(w, http.StatusGatewayTimeout, "timeout", "TikTok did not respond in time")

	case errors.As(err, &apiErr):
		s.logger.Warn("TikTok API error", "status", apiErr.Status, "err", err)
		resp := common.ErrorResponse{Error: "api_error"}
		if code, ok := apiErr.Code(); ok {
			resp.Error = code.String()
		}
		resp.ErrorDescription = lo.FromPtr(apiErr.Payload.Message)
		resp.LogID = lo.FromPtr(apiErr.Payload.LogID)
		common.WriteJSON(w, apiErr.Status, resp)

	case errors.As(err, &oauthErr):
		s.logger.Warn("TikTok OAuth error", "status", oauthErr.Status, "err", err)
		common.WriteJSON(w, http.StatusBadGateway, common.ErrorResponse{
			Error:            oauthErr.Payload.Error,
			ErrorDescription: oauthErr.Payload.ErrorDescription,
			LogID:            oauthErr.Payload.LogID,
		})

	case errors.As(err, &opaque):
		s.logger.Error("Unexpected TikTok response", "status", opaque.Status, "body", opaque.Text)
		common.WriteError(w, http.StatusBadGateway, "upstream_error", "unexpected response from TikTok")

	default:
		s.logger.Error("TikTok call failed", "err", err)
		common.WriteError(w, http.StatusBadGateway, "upstream_error", "")
	}
}

func (s *server) summarize(token *responses.TokenResult, issued time.Time) tokenSummary {
	known, unknown := oauth.ParseScopes(token.Scope)
	if len(unknown) > 0 {
		s.logger.Debug("Token carries unrecognized scopes", "scopes", unknown)
	}
	return tokenSummary{
		OpenID: token.OpenID,
		Scopes: lo.Map(known, func(sc oauth.Scope, _ int) string {
			return sc.String()
		}),
		ExpiresAt:        token.Expiry(issued).UTC(),
		RefreshExpiresAt: token.RefreshExpiry(issued).UTC(),
	}
}

func (s *server) setTokenCookies(w http.ResponseWriter, token *responses.TokenResult, issued time.Time) {
	http.SetCookie(w, s.tokenCookie(accessTokenCookie, token.AccessToken, token.Expiry(issued)))
	if token.RefreshToken != "" {
		http.SetCookie(w, s.tokenCookie(refreshTokenCookie, token.RefreshToken, token.RefreshExpiry(issued)))
	}
}

func (s *server) clearTokenCookies(w http.ResponseWriter) {
	for _, name := range []string{accessTokenCookie, refreshTokenCookie} {
		c := s.tokenCookie(name, "", time.Time{})
		c.MaxAge = -1
		http.SetCookie(w, c)
	}
}

func (s *server) tokenCookie(name, value string, expires time.Time) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	if !expires.IsZero() {
		c.MaxAge = int(time.Until(expires).Seconds())
	}
	return c
}

func readCookie(r *http.Request, name string) (string, bool) {
	c, err := r.Cookie(name)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}
