package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/ledgerdesk/internal/application"
	"github.com/ericfisherdev/ledgerdesk/internal/domain/model"
	"github.com/ericfisherdev/ledgerdesk/internal/domain/port/driven"
)

func TestUserList_SendsEveryFilterParam(t *testing.T) {
	backend := &mockBackend{do: func(driven.BackendRequest) (*driven.BackendResponse, error) {
		return okResponse([]model.User{{UserID: 1, LoginID: "admin", Role: "ADMIN", IsActive: true}}), nil
	}}
	svc := application.NewUserService(backend)
	active := true

	users, err := svc.List(context.Background(), model.UserFilter{Role: "ADMIN", IsActive: &active})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "admin", users[0].LoginID)

	q := backend.last().Query
	assert.Equal(t, "/user/list", backend.last().Path)
	assert.Equal(t, "0", q.Get("userId"))
	assert.Equal(t, "ADMIN", q.Get("role"))
	assert.Equal(t, "true", q.Get("isActive"))
	assert.Contains(t, q, "isFirstLogin")
	assert.Equal(t, "", q.Get("isFirstLogin"))
	assert.Contains(t, q, "loginId")
}

func TestUserWrites(t *testing.T) {
	backend := &mockBackend{}
	svc := application.NewUserService(backend)
	ctx := context.Background()
	nickname := "Ops"

	require.NoError(t, svc.Create(ctx, model.CreateUserRequest{LoginID: "ops", Password: "pw", Nickname: "Ops", Role: "USER"}))
	assert.Equal(t, "/user/create", backend.last().Path)

	require.NoError(t, svc.Update(ctx, model.UpdateUserRequest{UserID: 4, Nickname: &nickname}))
	assert.Equal(t, "/user/update", backend.last().Path)
	assert.JSONEq(t, `{"userId":4,"nickname":"Ops"}`, jsonBody(backend.last()))

	require.NoError(t, svc.Delete(ctx, 4))
	assert.Equal(t, "/user/delete", backend.last().Path)
	assert.Equal(t, "4", backend.last().Query.Get("userId"))

	require.NoError(t, svc.ResetPassword(ctx, 4, "initial"))
	assert.Equal(t, "/user/password/init", backend.last().Path)
	assert.JSONEq(t, `{"userId":4,"newPassword":"initial"}`, jsonBody(backend.last()))

	require.ErrorIs(t, svc.ResetPassword(ctx, 4, ""), application.ErrEmptyPassword)
}
