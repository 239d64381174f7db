package http

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/YogeshBarai/url-shortener/internal/entity"
)

type MockURLUseCase struct {
	mock.Mock
}

func (m *MockURLUseCase) ShortenURL(ctx context.Context, originalURL string, userID *int64) (*entity.URL, error) {
	args := m.Called(ctx, originalURL, userID)
	url, _ := args.Get(0).(*entity.URL)
	return url, args.Error(1)
}

func (m *MockURLUseCase) ResolveShortCode(ctx context.Context, shortCode string) (*entity.URL, error) {
	args := m.Called(ctx, shortCode)
	url, _ := args.Get(0).(*entity.URL)
	return url, args.Error(1)
}

func (m *MockURLUseCase) ListOwnedURLs(ctx context.Context, userID int64) ([]entity.URL, error) {
	args := m.Called(ctx, userID)
	urls, _ := args.Get(0).([]entity.URL)
	return urls, args.Error(1)
}

type MockUserUseCase struct {
	mock.Mock
}

func (m *MockUserUseCase) Register(ctx context.Context, username, email, password string) (*entity.User, error) {
	args := m.Called(ctx, username, email, password)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (m *MockUserUseCase) Login(ctx context.Context, email, password string) (*entity.User, error) {
	args := m.Called(ctx, email, password)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

type MockVisitorUseCase struct {
	mock.Mock
}

func (m *MockVisitorUseCase) RecordVisit(ctx context.Context) (entity.SiteStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(entity.SiteStats), args.Error(1)
}
