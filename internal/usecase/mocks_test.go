package usecase

import (
	"context"

	"github.com/YogeshBarai/url-shortener/internal/entity"
	"github.com/stretchr/testify/mock"
)

type MockURLRepository struct {
	mock.Mock
}

func (r *MockURLRepository) Save(ctx context.Context, shortCode, originalURL string, userID *int64) (*entity.URL, error) {
	args := r.Called(ctx, shortCode, originalURL, userID)
	url, _ := args.Get(0).(*entity.URL)
	return url, args.Error(1)
}

func (r *MockURLRepository) RetrieveByShortCode(ctx context.Context, shortCode string) (*entity.URL, error) {
	args := r.Called(ctx, shortCode)
	url, _ := args.Get(0).(*entity.URL)
	return url, args.Error(1)
}

func (r *MockURLRepository) ListByUser(ctx context.Context, userID int64) ([]entity.URL, error) {
	args := r.Called(ctx, userID)
	urls, _ := args.Get(0).([]entity.URL)
	return urls, args.Error(1)
}

func (r *MockURLRepository) Count(ctx context.Context) (int64, error) {
	args := r.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockURLCache struct {
	mock.Mock
}

func (c *MockURLCache) Get(ctx context.Context, shortCode string) (string, bool) {
	args := c.Called(ctx, shortCode)
	return args.String(0), args.Bool(1)
}

func (c *MockURLCache) Set(ctx context.Context, shortCode, originalURL string) {
	c.Called(ctx, shortCode, originalURL)
}

type MockUserRepository struct {
	mock.Mock
}

func (r *MockUserRepository) Save(ctx context.Context, username, email, passwordHash string) (*entity.User, error) {
	args := r.Called(ctx, username, email, passwordHash)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (r *MockUserRepository) RetrieveByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := r.Called(ctx, email)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

type MockVisitorRepository struct {
	mock.Mock
}

func (r *MockVisitorRepository) Increment(ctx context.Context) (int64, error) {
	args := r.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
