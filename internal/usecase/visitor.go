package usecase

import (
	"context"
	"fmt"

	"github.com/YogeshBarai/url-shortener/internal/entity"
)

type visitorRepository interface {
	Increment(ctx context.Context) (int64, error)
}

type urlCounter interface {
	CountURLs(ctx context.Context) (int64, error)
}

type VisitorUseCase struct {
	visitorRepo visitorRepository
	urls        urlCounter
}

func NewVisitorUseCase(visitorRepo visitorRepository, urls urlCounter) *VisitorUseCase {
	return &VisitorUseCase{
		visitorRepo: visitorRepo,
		urls:        urls,
	}
}

// RecordVisit bumps the visitor counter and reports it along with the
// number of stored URLs.
func (uc *VisitorUseCase) RecordVisit(ctx context.Context) (entity.SiteStats, error) {
	const op = "usecase.VisitorUseCase.RecordVisit"

	visits, err := uc.visitorRepo.Increment(ctx)
	if err != nil {
		return entity.SiteStats{}, fmt.Errorf("%s: failed to increment visitor counter: %w", op, err)
	}

	urls, err := uc.urls.CountURLs(ctx)
	if err != nil {
		return entity.SiteStats{}, fmt.Errorf("%s: failed to count urls: %w", op, err)
	}

	return entity.SiteStats{Visits: visits, URLs: urls}, nil
}
