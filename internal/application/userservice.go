package application

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ericfisherdev/ledgerdesk/internal/domain/model"
	"github.com/ericfisherdev/ledgerdesk/internal/domain/port/driven"
)

// ErrEmptyPassword is returned by ResetPassword for an empty password.
var ErrEmptyPassword = errors.New("new password is required")

// UserService administers back-office accounts.
type UserService struct {
	backend driven.Backend
}

// NewUserService creates a UserService.
func NewUserService(backend driven.Backend) *UserService {
	return &UserService{backend: backend}
}

// List returns accounts matching filter. The backend expects every filter
// parameter to be present; unset ones are sent as "0" (user id) or "".
func (s *UserService) List(ctx context.Context, filter model.UserFilter) ([]model.User, error) {
	var users []model.User
	err := call(ctx, s.backend, "list users", driven.BackendRequest{
		Method:          http.MethodPost,
		Path:            "/user/list",
		Query:           userQuery(filter),
		Body:            emptyBody,
		FallbackMessage: "failed to load users",
	}, &users)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []model.User{}
	}
	return users, nil
}

func (s *UserService) Create(ctx context.Context, req model.CreateUserRequest) error {
	return call(ctx, s.backend, "create user", driven.BackendRequest{
		Method:          http.MethodPost,
		Path:            "/user/create",
		Body:            req,
		FallbackMessage: "failed to create user",
	}, nil)
}

func (s *UserService) Update(ctx context.Context, req model.UpdateUserRequest) error {
	return call(ctx, s.backend, "update user", driven.BackendRequest{
		Method:          http.MethodPost,
		Path:            "/user/update",
		Body:            req,
		FallbackMessage: "failed to update user",
	}, nil)
}

func (s *UserService) Delete(ctx context.Context, userID int64) error {
	return call(ctx, s.backend, "delete user", driven.BackendRequest{
		Method:          http.MethodPost,
		Path:            "/user/delete",
		Query:           url.Values{"userId": {strconv.FormatInt(userID, 10)}},
		Body:            emptyBody,
		FallbackMessage: "failed to delete user",
	}, nil)
}

// ResetPassword sets a new initial password for userID.
func (s *UserService) ResetPassword(ctx context.Context, userID int64, newPassword string) error {
	if newPassword == "" {
		return ErrEmptyPassword
	}

	return call(ctx, s.backend, "reset password", driven.BackendRequest{
		Method: http.MethodPost,
		Path:   "/user/password/init",
		Body: struct {
			UserID      int64  `json:"userId"`
			NewPassword string `json:"newPassword"`
		}{userID, newPassword},
		FallbackMessage: "failed to reset password",
	}, nil)
}

func userQuery(f model.UserFilter) url.Values {
	return url.Values{
		"userId":       {strconv.FormatInt(f.UserID, 10)},
		"loginId":      {f.LoginID},
		"nickname":     {f.Nickname},
		"role":         {f.Role},
		"isActive":     {optionalBool(f.IsActive)},
		"isFirstLogin": {optionalBool(f.IsFirstLogin)},
	}
}

func optionalBool(b *bool) string {
	if b == nil {
		return ""
	}
	return strconv.FormatBool(*b)
}
