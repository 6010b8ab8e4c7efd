package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/lshigami/IntelliHire/internal/dto"
	"github.com/lshigami/IntelliHire/internal/model"
	"github.com/lshigami/IntelliHire/internal/repository"
	"github.com/rs/zerolog/log"
)

type UserService interface {
	UpsertUser(ctx context.Context, req dto.UpsertUserRequest) (*dto.UserResponse, error)
	GetUser(ctx context.Context, id string) (*dto.UserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(repos *repository.Repositories) UserService {
	return &userService{userRepo: repos.Users}
}

func (s *userService) UpsertUser(ctx context.Context, req dto.UpsertUserRequest) (*dto.UserResponse, error) {
	if strings.TrimSpace(req.ID) == "" {
		return nil, NewValidationError("Missing user id")
	}
	user := &model.User{}
	existing, err := s.userRepo.FindByID(ctx, req.ID)
	switch {
	case err == nil:
		user = existing
	case !errors.Is(err, repository.ErrNotFound):
		return nil, upstream("get user", err)
	}
	if err := copier.Copy(user, &req); err != nil {
		return nil, fmt.Errorf("error mapping user: %w", err)
	}
	if err := s.userRepo.Upsert(ctx, user); err != nil {
		log.Error().Err(err).Str("userID", req.ID).Msg("UpsertUser: failed to save user")
		return nil, upstream("save user", err)
	}
	return toUserResponse(user)
}

func (s *userService) GetUser(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Message: "User not found"}
	}
	if err != nil {
		return nil, upstream("get user", err)
	}
	return toUserResponse(user)
}

func toUserResponse(user *model.User) (*dto.UserResponse, error) {
	var resp dto.UserResponse
	if err := copier.Copy(&resp, user); err != nil {
		return nil, fmt.Errorf("error preparing user response: %w", err)
	}
	return &resp, nil
}
