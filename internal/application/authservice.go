package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ericfisherdev/ledgerdesk/internal/domain/model"
	"github.com/ericfisherdev/ledgerdesk/internal/domain/port/driven"
)

const loginFailedMessage = "login failed"

// ErrMissingCredentials is returned by Login when the login id or password
// is empty.
var ErrMissingCredentials = errors.New("login id and password are required")

type loginResponse struct {
	AccessToken string `json:"accessToken"`
}

// AuthService logs the operator in and out. Login stores the issued bearer
// token in the Session; Logout always ends the local session regardless of
// what the backend answers.
type AuthService struct {
	backend   driven.Backend
	session   *Session
	navigator driven.Navigator
	logger    *slog.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(backend driven.Backend, session *Session, navigator driven.Navigator, logger *slog.Logger) *AuthService {
	return &AuthService{
		backend:   backend,
		session:   session,
		navigator: navigator,
		logger:    logger,
	}
}

// Login exchanges a login id and password for an access token. Auth
// endpoints are not envelope-checked by the pipeline, so a rejected login is
// detected here and returned as a *model.BusinessError carrying the server's
// message.
func (s *AuthService) Login(ctx context.Context, loginID, password string) error {
	if loginID == "" || password == "" {
		return ErrMissingCredentials
	}

	resp, err := s.backend.Do(ctx, driven.BackendRequest{
		Method:          http.MethodPost,
		Path:            "/auth/login",
		Body:            map[string]string{"loginId": loginID, "password": password},
		FallbackMessage: loginFailedMessage,
	})
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	env := resp.Envelope()
	var data loginResponse
	if env.OK() {
		if err := env.DecodeData(&data); err != nil {
			return fmt.Errorf("login: %w", err)
		}
	}
	if !env.OK() || data.AccessToken == "" {
		return &model.BusinessError{
			StatusCode: resp.StatusCode,
			Code:       model.ErrorCode(env.Code),
			Message:    env.UserMessage(loginFailedMessage),
		}
	}

	if err := s.session.Store(ctx, data.AccessToken); err != nil {
		// The token is held in memory; only persistence failed.
		s.logger.Error("failed to persist access token", "error", err)
	}
	s.logger.Info("operator logged in", "login_id", loginID)
	return nil
}

// Logout notifies the backend, then clears the credential and redirects to
// login. A failed backend call is logged and otherwise ignored. When the
// pipeline already redirected (fatal auth) no second redirect is fired.
func (s *AuthService) Logout(ctx context.Context) {
	_, err := s.backend.Do(ctx, driven.BackendRequest{
		Method: http.MethodPost,
		Path:   "/auth/logout",
		Body:   emptyBody,
	})

	var fatal *model.FatalAuthError
	redirected := errors.As(err, &fatal)
	if err != nil {
		s.logger.Warn("logout call failed", "error", err)
	}

	if err := s.session.Clear(context.WithoutCancel(ctx)); err != nil {
		s.logger.Error("failed to clear access token", "error", err)
	}
	if !redirected {
		s.navigator.RedirectToLogin(ctx, "")
	}
	s.logger.Info("operator logged out")
}

// Authenticated reports whether a bearer token is currently held.
func (s *AuthService) Authenticated() bool {
	return s.session.Authenticated()
}
