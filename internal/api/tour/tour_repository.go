package tour

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/travelica/travelica-backend/app/observability/metrics"
	"github.com/travelica/travelica-backend/internal/types"
)

var _ Repository = (*PostgresTourRepository)(nil)

// Repository is the tour catalog store.
type Repository interface {
	// FindByID retrieves a single tour. Returns ErrNotFound if the id is absent.
	FindByID(ctx context.Context, id int) (*types.Tour, error)

	// FindByParams retrieves the tours matching the extracted search
	// filter, in stable id order.
	FindByParams(ctx context.Context, params types.TourSearchParams) ([]types.Tour, error)

	// ListAll retrieves every catalog record in stable id order.
	ListAll(ctx context.Context) ([]types.Tour, error)
}

// DB is the subset of pgxpool.Pool the repository uses; narrowed so the
// repository can run against pgxmock in tests.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ DB = (*pgxpool.Pool)(nil)

type PostgresTourRepository struct {
	logger *slog.Logger
	db     DB
}

func NewTourRepository(db DB, logger *slog.Logger) *PostgresTourRepository {
	return &PostgresTourRepository{
		logger: logger,
		db:     db,
	}
}

const tourColumns = "id, place, destination, budget, duration_days, duration_nights, created_at"

func (r *PostgresTourRepository) FindByID(ctx context.Context, id int) (*types.Tour, error) {
	query := `SELECT ` + tourColumns + ` FROM tours WHERE id = $1`

	start := time.Now()
	row := r.db.QueryRow(ctx, query, id)
	tour, err := scanTour(row)
	metrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("query", "find_by_id")))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("%w: failed to find tour %d: %v", types.ErrCatalog, id, err)
	}
	return tour, nil
}

func (r *PostgresTourRepository) FindByParams(ctx context.Context, params types.TourSearchParams) ([]types.Tour, error) {
	query := `
        SELECT ` + tourColumns + `
        FROM tours
        WHERE (coalesce(cardinality($1::text[]), 0) = 0 OR lower(place) = ANY($1))
          AND budget <= $2
          AND duration_days <= $3
          AND duration_nights <= $4
        ORDER BY id
    `
	start := time.Now()
	rows, err := r.db.Query(ctx, query,
		params.Places, params.MaxBudget, params.MaxDurationDays, params.MaxDurationNights)
	metrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("query", "find_by_params")))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to search tours: %v", types.ErrCatalog, err)
	}
	return collectTours(rows)
}

func (r *PostgresTourRepository) ListAll(ctx context.Context) ([]types.Tour, error) {
	query := `SELECT ` + tourColumns + ` FROM tours ORDER BY id`

	start := time.Now()
	rows, err := r.db.Query(ctx, query)
	metrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("query", "list_all")))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list tours: %v", types.ErrCatalog, err)
	}
	return collectTours(rows)
}

func scanTour(row pgx.Row) (*types.Tour, error) {
	var t types.Tour
	err := row.Scan(&t.ID, &t.Place, &t.Destination, &t.Budget,
		&t.DurationDays, &t.DurationNights, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func collectTours(rows pgx.Rows) ([]types.Tour, error) {
	defer rows.Close()

	var tours []types.Tour
	for rows.Next() {
		var t types.Tour
		if err := rows.Scan(&t.ID, &t.Place, &t.Destination, &t.Budget,
			&t.DurationDays, &t.DurationNights, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: failed to scan tour row: %v", types.ErrCatalog, err)
		}
		tours = append(tours, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to read tour rows: %v", types.ErrCatalog, err)
	}
	return tours, nil
}
