package tour

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/travelica/travelica-backend/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service exposes the tour catalog to handlers and the chat orchestrator.
type Service interface {
	GetTour(ctx context.Context, id int) (*types.Tour, error)
	SearchTours(ctx context.Context, params types.TourSearchParams) ([]types.Tour, error)
	GetAllTours(ctx context.Context) ([]types.Tour, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
}

func NewTourService(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func (s *ServiceImpl) GetTour(ctx context.Context, id int) (*types.Tour, error) {
	ctx, span := otel.Tracer("TourService").Start(ctx, "GetTour")
	defer span.End()
	span.SetAttributes(attribute.Int("tour.id", id))

	tour, err := s.repo.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Lookup failed")
		return nil, fmt.Errorf("error fetching tour: %w", err)
	}
	return tour, nil
}

func (s *ServiceImpl) SearchTours(ctx context.Context, params types.TourSearchParams) ([]types.Tour, error) {
	ctx, span := otel.Tracer("TourService").Start(ctx, "SearchTours")
	defer span.End()
	span.SetAttributes(
		attribute.StringSlice("tour.places", params.Places),
		attribute.Int("tour.max_budget", params.MaxBudget),
		attribute.Int("tour.max_duration_days", params.MaxDurationDays),
	)

	tours, err := s.repo.FindByParams(ctx, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Search failed")
		return nil, fmt.Errorf("error searching tours: %w", err)
	}
	s.logger.DebugContext(ctx, "Tour search completed", slog.Int("matches", len(tours)))
	return tours, nil
}

func (s *ServiceImpl) GetAllTours(ctx context.Context) ([]types.Tour, error) {
	ctx, span := otel.Tracer("TourService").Start(ctx, "GetAllTours")
	defer span.End()

	tours, err := s.repo.ListAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "List failed")
		return nil, fmt.Errorf("error listing tours: %w", err)
	}
	return tours, nil
}
