package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/YogeshBarai/url-shortener/internal/entity"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type URLUseCaseTestSuite struct {
	suite.Suite
	errUnknown  error
	urlRepoMock *MockURLRepository
	cacheMock   *MockURLCache
	uc          *URLUseCase
}

func (suite *URLUseCaseTestSuite) SetupSuite() {
	suite.errUnknown = errors.New("unknown error")
}

func (suite *URLUseCaseTestSuite) SetupSubTest() {
	suite.urlRepoMock = new(MockURLRepository)
	suite.cacheMock = new(MockURLCache)
	suite.uc = NewURLUseCase(suite.urlRepoMock)
}

func (suite *URLUseCaseTestSuite) TearDownSubTest() {
	suite.urlRepoMock.AssertExpectations(suite.T())
	suite.cacheMock.AssertExpectations(suite.T())
}

func (suite *URLUseCaseTestSuite) TestShortenURL() {
	owner := int64(1)

	suite.Run("short code generation error", func() {
		suite.uc.generateCode = func() (string, error) {
			return "", suite.errUnknown
		}

		url, err := suite.uc.ShortenURL(context.Background(), "https://example.com", nil)

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(url)
	})

	suite.Run("maximum retries error", func() {
		suite.urlRepoMock.
			On("Save", context.Background(), mock.Anything, "https://example.com", (*int64)(nil)).
			Times(5).
			Return(nil, entity.ErrShortCodeExists)

		url, err := suite.uc.ShortenURL(context.Background(), "https://example.com", nil)

		suite.Error(err)
		suite.ErrorIs(err, ErrMaxRetriesExceeded)
		suite.Nil(url)
	})

	suite.Run("retry after collision", func() {
		codes := []string{"aaaaaa", "bbbbbb"}
		suite.uc.generateCode = func() (string, error) {
			code := codes[0]
			codes = codes[1:]
			return code, nil
		}

		suite.urlRepoMock.
			On("Save", context.Background(), "aaaaaa", "https://example.com", &owner).
			Once().
			Return(nil, entity.ErrShortCodeExists)
		suite.urlRepoMock.
			On("Save", context.Background(), "bbbbbb", "https://example.com", &owner).
			Once().
			Return(&entity.URL{ShortCode: "bbbbbb", OriginalURL: "https://example.com", UserID: &owner}, nil)

		url, err := suite.uc.ShortenURL(context.Background(), "https://example.com", &owner)

		suite.NoError(err)
		suite.Equal("bbbbbb", url.ShortCode)
		suite.Equal(&owner, url.UserID)
	})

	suite.Run("skips reserved codes", func() {
		uc := NewURLUseCase(suite.urlRepoMock, WithReservedCodes("logout"))
		codes := []string{"logout", "bbbbbb"}
		uc.generateCode = func() (string, error) {
			code := codes[0]
			codes = codes[1:]
			return code, nil
		}

		suite.urlRepoMock.
			On("Save", context.Background(), "bbbbbb", "https://example.com", (*int64)(nil)).
			Once().
			Return(&entity.URL{ShortCode: "bbbbbb", OriginalURL: "https://example.com"}, nil)

		url, err := uc.ShortenURL(context.Background(), "https://example.com", nil)

		suite.NoError(err)
		suite.Equal("bbbbbb", url.ShortCode)
	})

	suite.Run("only reserved codes", func() {
		uc := NewURLUseCase(suite.urlRepoMock, WithReservedCodes("logout"))
		uc.generateCode = func() (string, error) {
			return "logout", nil
		}

		url, err := uc.ShortenURL(context.Background(), "https://example.com", nil)

		suite.ErrorIs(err, ErrMaxRetriesExceeded)
		suite.Nil(url)
	})

	suite.Run("unknown error", func() {
		suite.urlRepoMock.
			On("Save", context.Background(), mock.Anything, "https://example.com", (*int64)(nil)).
			Once().
			Return(nil, suite.errUnknown)

		url, err := suite.uc.ShortenURL(context.Background(), "https://example.com", nil)

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(url)
	})

	suite.Run("success", func() {
		suite.urlRepoMock.
			On("Save", context.Background(), mock.MatchedBy(IsShortCode), "https://example.com", (*int64)(nil)).
			Once().
			Return(&entity.URL{
				ShortCode:   "abc123",
				OriginalURL: "https://example.com",
			}, nil)

		url, err := suite.uc.ShortenURL(context.Background(), "https://example.com", nil)

		suite.NoError(err)
		suite.NotNil(url)
		suite.Equal("abc123", url.ShortCode)
		suite.Equal("https://example.com", url.OriginalURL)
		suite.Nil(url.UserID)
	})
}

func (suite *URLUseCaseTestSuite) TestResolveShortCode() {
	suite.Run("url not found", func() {
		suite.urlRepoMock.
			On("RetrieveByShortCode", context.Background(), "abc123").
			Once().
			Return(nil, entity.ErrURLNotFound)

		url, err := suite.uc.ResolveShortCode(context.Background(), "abc123")

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrURLNotFound)
		suite.Nil(url)
	})

	suite.Run("unknown error", func() {
		suite.urlRepoMock.
			On("RetrieveByShortCode", context.Background(), "abc123").
			Once().
			Return(nil, suite.errUnknown)

		url, err := suite.uc.ResolveShortCode(context.Background(), "abc123")

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(url)
	})

	suite.Run("success", func() {
		suite.urlRepoMock.
			On("RetrieveByShortCode", context.Background(), "abc123").
			Once().
			Return(&entity.URL{
				ShortCode:   "abc123",
				OriginalURL: "https://example.com",
			}, nil)

		url, err := suite.uc.ResolveShortCode(context.Background(), "abc123")

		suite.NoError(err)
		suite.NotNil(url)
		suite.Equal("abc123", url.ShortCode)
		suite.Equal("https://example.com", url.OriginalURL)
	})

	suite.Run("cache hit", func() {
		suite.uc = NewURLUseCase(suite.urlRepoMock, WithCache(suite.cacheMock))

		suite.cacheMock.
			On("Get", context.Background(), "abc123").
			Once().
			Return("https://example.com", true)

		url, err := suite.uc.ResolveShortCode(context.Background(), "abc123")

		suite.NoError(err)
		suite.Equal("https://example.com", url.OriginalURL)
		suite.urlRepoMock.AssertNotCalled(suite.T(), "RetrieveByShortCode", mock.Anything, mock.Anything)
	})

	suite.Run("cache miss populates cache", func() {
		suite.uc = NewURLUseCase(suite.urlRepoMock, WithCache(suite.cacheMock))

		suite.cacheMock.
			On("Get", context.Background(), "abc123").
			Once().
			Return("", false)
		suite.urlRepoMock.
			On("RetrieveByShortCode", context.Background(), "abc123").
			Once().
			Return(&entity.URL{ShortCode: "abc123", OriginalURL: "https://example.com"}, nil)
		suite.cacheMock.
			On("Set", context.Background(), "abc123", "https://example.com").
			Once()

		url, err := suite.uc.ResolveShortCode(context.Background(), "abc123")

		suite.NoError(err)
		suite.Equal("https://example.com", url.OriginalURL)
	})

	suite.Run("cache miss and url not found", func() {
		suite.uc = NewURLUseCase(suite.urlRepoMock, WithCache(suite.cacheMock))

		suite.cacheMock.
			On("Get", context.Background(), "abc123").
			Once().
			Return("", false)
		suite.urlRepoMock.
			On("RetrieveByShortCode", context.Background(), "abc123").
			Once().
			Return(nil, entity.ErrURLNotFound)

		url, err := suite.uc.ResolveShortCode(context.Background(), "abc123")

		suite.ErrorIs(err, entity.ErrURLNotFound)
		suite.Nil(url)
	})
}

func (suite *URLUseCaseTestSuite) TestListOwnedURLs() {
	suite.Run("unknown error", func() {
		suite.urlRepoMock.
			On("ListByUser", context.Background(), int64(1)).
			Once().
			Return(nil, suite.errUnknown)

		urls, err := suite.uc.ListOwnedURLs(context.Background(), 1)

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(urls)
	})

	suite.Run("success", func() {
		suite.urlRepoMock.
			On("ListByUser", context.Background(), int64(1)).
			Once().
			Return([]entity.URL{{ShortCode: "abc123"}, {ShortCode: "def456"}}, nil)

		urls, err := suite.uc.ListOwnedURLs(context.Background(), 1)

		suite.NoError(err)
		suite.Len(urls, 2)
	})
}

func (suite *URLUseCaseTestSuite) TestCountURLs() {
	suite.Run("unknown error", func() {
		suite.urlRepoMock.
			On("Count", context.Background()).
			Once().
			Return(int64(0), suite.errUnknown)

		_, err := suite.uc.CountURLs(context.Background())

		suite.ErrorIs(err, suite.errUnknown)
	})

	suite.Run("success", func() {
		suite.urlRepoMock.
			On("Count", context.Background()).
			Once().
			Return(int64(42), nil)

		n, err := suite.uc.CountURLs(context.Background())

		suite.NoError(err)
		suite.Equal(int64(42), n)
	})
}

func TestURLUseCase(t *testing.T) {
	suite.Run(t, new(URLUseCaseTestSuite))
}
