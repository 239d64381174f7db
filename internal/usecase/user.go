package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/YogeshBarai/url-shortener/internal/entity"
	"golang.org/x/crypto/bcrypt"
)

type userRepository interface {
	Save(ctx context.Context, username, email, passwordHash string) (*entity.User, error)
	RetrieveByEmail(ctx context.Context, email string) (*entity.User, error)
}

type UserUseCase struct {
	userRepo   userRepository
	bcryptCost int
}

// NewUserUseCase creates a UserUseCase hashing passwords with the given bcrypt cost.
// A cost outside bcrypt's accepted range falls back to bcrypt.DefaultCost.
func NewUserUseCase(userRepo userRepository, bcryptCost int) *UserUseCase {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}

	return &UserUseCase{
		userRepo:   userRepo,
		bcryptCost: bcryptCost,
	}
}

func (uc *UserUseCase) Register(ctx context.Context, username, email, password string) (*entity.User, error) {
	const op = "usecase.UserUseCase.Register"

	if len(password) > entity.MaxPasswordBytes {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrPasswordTooLong)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), uc.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to hash password: %w", op, err)
	}

	user, err := uc.userRepo.Save(ctx, username, email, string(hash))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to register user: %w", op, err)
	}

	return user, nil
}

// Login returns entity.ErrInvalidCredentials both for an unknown email and
// for a wrong password.
func (uc *UserUseCase) Login(ctx context.Context, email, password string) (*entity.User, error) {
	const op = "usecase.UserUseCase.Login"

	user, err := uc.userRepo.RetrieveByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrInvalidCredentials)
		}

		return nil, fmt.Errorf("%s: failed to retrieve user: %w", op, err)
	}

	if !authenticate(user, password) {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrInvalidCredentials)
	}

	return user, nil
}

func authenticate(a entity.Authenticatable, password string) bool {
	return a.CheckPassword(password)
}
