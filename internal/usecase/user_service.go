package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/teamsheet/internal/domain/user"
	idgen "github.com/riskibarqy/teamsheet/internal/platform/id"
)

type RegisterUserInput struct {
	UserID      string
	Email       string
	DisplayName string
}

type UserService struct {
	userRepo user.Repository
	codes    idgen.CodeGenerator
	now      func() time.Time
}

func NewUserService(userRepo user.Repository, codes idgen.CodeGenerator) *UserService {
	return &UserService{
		userRepo: userRepo,
		codes:    codes,
		now:      time.Now,
	}
}

// Register creates the caller's profile on first use and returns the existing one afterwards.
func (s *UserService) Register(ctx context.Context, input RegisterUserInput) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.Register")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.Email = strings.TrimSpace(input.Email)
	input.DisplayName = strings.TrimSpace(input.DisplayName)
	if input.UserID == "" {
		return user.User{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if input.DisplayName == "" {
		input.DisplayName = displayNameFromEmail(input.Email)
	}
	if input.DisplayName == "" {
		return user.User{}, fmt.Errorf("%w: display name is required", ErrInvalidInput)
	}

	existing, exists, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return user.User{}, fmt.Errorf("get user by id: %w", err)
	}
	if exists {
		return existing, nil
	}

	now := s.now().UTC()
	item := user.User{
		ID:          input.UserID,
		DisplayName: input.DisplayName,
		Email:       input.Email,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	_, err = withUniqueCode(ctx, s.codes, user.CodeLength, func(code string) error {
		item.Code = code
		return s.userRepo.Create(ctx, item)
	})
	if err != nil {
		// A concurrent first request may have created the profile already.
		if again, exists, getErr := s.userRepo.GetByID(ctx, input.UserID); getErr == nil && exists {
			return again, nil
		}
		return user.User{}, fmt.Errorf("create user: %w", err)
	}

	return item, nil
}

func (s *UserService) GetMe(ctx context.Context, userID string) (user.User, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return user.User{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	item, exists, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return user.User{}, fmt.Errorf("get user by id: %w", err)
	}
	if !exists {
		return user.User{}, fmt.Errorf("%w: profile not registered yet", ErrNotFound)
	}
	return item, nil
}

func (s *UserService) GetByCode(ctx context.Context, code string) (user.User, error) {
	code = user.NormalizeCode(code)
	if len(code) != user.CodeLength {
		return user.User{}, fmt.Errorf("%w: user code must be %d characters", ErrInvalidInput, user.CodeLength)
	}

	item, exists, err := s.userRepo.GetByCode(ctx, code)
	if err != nil {
		return user.User{}, fmt.Errorf("get user by code: %w", err)
	}
	if !exists {
		return user.User{}, fmt.Errorf("%w: user code=%s", ErrNotFound, code)
	}
	return item, nil
}

func displayNameFromEmail(email string) string {
	local, _, found := strings.Cut(email, "@")
	if !found {
		return ""
	}
	return strings.TrimSpace(local)
}
