package service

import (
	"context"
	"testing"

	"github.com/lshigami/IntelliHire/internal/dto"
	"github.com/lshigami/IntelliHire/internal/model"
	"github.com/lshigami/IntelliHire/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService(t *testing.T) {
	repo := &memUserRepo{items: map[string]model.User{}}
	svc := NewUserService(&repository.Repositories{Users: repo})
	ctx := context.Background()

	_, err := svc.GetUser(ctx, "u1")
	assert.True(t, IsNotFound(err))

	_, err = svc.UpsertUser(ctx, dto.UpsertUserRequest{FullName: "No Id"})
	assert.True(t, IsValidation(err))

	created, err := svc.UpsertUser(ctx, dto.UpsertUserRequest{ID: "u1", FullName: "Ada Lovelace", Email: "ada@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", created.FullName)

	_, err = svc.UpsertUser(ctx, dto.UpsertUserRequest{ID: "u1", FullName: "Ada King", Email: "ada@example.com"})
	require.NoError(t, err)

	got, err := svc.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ada King", got.FullName)
	assert.Equal(t, "ada@example.com", got.Email)
}
