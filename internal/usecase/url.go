package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/YogeshBarai/url-shortener/internal/entity"
)

// ErrMaxRetriesExceeded is returned when the maximum number of retries for generating a short code is exceeded.
var ErrMaxRetriesExceeded = errors.New("maximum retries exceeded for generating short code")

type urlRepository interface {
	Save(ctx context.Context, shortCode, originalURL string, userID *int64) (*entity.URL, error)
	RetrieveByShortCode(ctx context.Context, shortCode string) (*entity.URL, error)
	ListByUser(ctx context.Context, userID int64) ([]entity.URL, error)
	Count(ctx context.Context) (int64, error)
}

// urlCache is an optional read-through cache for resolved short codes.
type urlCache interface {
	Get(ctx context.Context, shortCode string) (string, bool)
	Set(ctx context.Context, shortCode, originalURL string)
}

type URLUseCase struct {
	urlRepo      urlRepository
	cache        urlCache
	reserved     map[string]struct{}
	generateCode func() (string, error)
}

type URLOption func(*URLUseCase)

// WithCache makes ResolveShortCode consult c before the repository.
func WithCache(c urlCache) URLOption {
	return func(uc *URLUseCase) {
		uc.cache = c
	}
}

// WithReservedCodes keeps ShortenURL from issuing codes that collide with
// fixed routes of the web interface.
func WithReservedCodes(codes ...string) URLOption {
	return func(uc *URLUseCase) {
		for _, code := range codes {
			uc.reserved[code] = struct{}{}
		}
	}
}

func NewURLUseCase(urlRepo urlRepository, opts ...URLOption) *URLUseCase {
	uc := &URLUseCase{
		urlRepo:      urlRepo,
		reserved:     make(map[string]struct{}),
		generateCode: GenerateShortCode,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

func (uc *URLUseCase) ShortenURL(ctx context.Context, originalURL string, userID *int64) (*entity.URL, error) {
	const op = "usecase.URLUseCase.ShortenURL"
	const maxRetries = 5

	for i := 0; i < maxRetries; i++ {
		shortCode, err := uc.generateCode()
		if err != nil {
			return nil, fmt.Errorf("%s: failed to generate short code: %w", op, err)
		}

		if _, ok := uc.reserved[shortCode]; ok {
			continue
		}

		url, err := uc.urlRepo.Save(ctx, shortCode, originalURL, userID)
		if err != nil {
			if errors.Is(err, entity.ErrShortCodeExists) {
				continue
			}

			return nil, fmt.Errorf("%s: failed to shorten url: %w", op, err)
		}

		return url, nil
	}

	return nil, fmt.Errorf("%s: %w", op, ErrMaxRetriesExceeded)
}

func (uc *URLUseCase) ResolveShortCode(ctx context.Context, shortCode string) (*entity.URL, error) {
	const op = "usecase.URLUseCase.ResolveShortCode"

	if uc.cache != nil {
		if originalURL, ok := uc.cache.Get(ctx, shortCode); ok {
			return &entity.URL{ShortCode: shortCode, OriginalURL: originalURL}, nil
		}
	}

	url, err := uc.urlRepo.RetrieveByShortCode(ctx, shortCode)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to resolve short code: %w", op, err)
	}

	if uc.cache != nil {
		uc.cache.Set(ctx, url.ShortCode, url.OriginalURL)
	}

	return url, nil
}

func (uc *URLUseCase) ListOwnedURLs(ctx context.Context, userID int64) ([]entity.URL, error) {
	const op = "usecase.URLUseCase.ListOwnedURLs"

	urls, err := uc.urlRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list urls: %w", op, err)
	}

	return urls, nil
}

func (uc *URLUseCase) CountURLs(ctx context.Context) (int64, error) {
	const op = "usecase.URLUseCase.CountURLs"

	n, err := uc.urlRepo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to count urls: %w", op, err)
	}

	return n, nil
}
