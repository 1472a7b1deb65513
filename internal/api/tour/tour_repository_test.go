package tour

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travelica/travelica-backend/internal/types"
)

var tourRows = []string{"id", "place", "destination", "budget", "duration_days", "duration_nights", "created_at"}

func setupTourRepositoryTest(t *testing.T) (*PostgresTourRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)

	logger := slog.New(slog.DiscardHandler)
	return NewTourRepository(mockPool, logger), mockPool
}

func TestPostgresTourRepository_FindByID(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("success", func(t *testing.T) {
		repo, mockPool := setupTourRepositoryTest(t)
		mockPool.ExpectQuery(`SELECT (.+) FROM tours WHERE id = \$1`).
			WithArgs(1).
			WillReturnRows(pgxmock.NewRows(tourRows).
				AddRow(1, "hanoi", "Hanoi Old Quarter walking tour", 150, 2, 1, now))

		tour, err := repo.FindByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 1, tour.ID)
		assert.Equal(t, "hanoi", tour.Place)
		assert.Equal(t, "Hanoi Old Quarter walking tour", tour.Destination)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("absent id maps to ErrNotFound", func(t *testing.T) {
		repo, mockPool := setupTourRepositoryTest(t)
		mockPool.ExpectQuery(`SELECT (.+) FROM tours WHERE id = \$1`).
			WithArgs(999).
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.FindByID(ctx, 999)
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrNotFound)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestPostgresTourRepository_FindByParams(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("filters and stable order", func(t *testing.T) {
		repo, mockPool := setupTourRepositoryTest(t)
		params := types.TourSearchParams{
			Places:            []string{"hanoi"},
			MaxBudget:         500,
			MaxDurationDays:   3,
			MaxDurationNights: 2,
		}
		mockPool.ExpectQuery(`SELECT (.+) FROM tours`).
			WithArgs(params.Places, 500, 3, 2).
			WillReturnRows(pgxmock.NewRows(tourRows).
				AddRow(1, "hanoi", "Hanoi Old Quarter walking tour", 150, 2, 1, now).
				AddRow(2, "hanoi", "Hanoi and Ninh Binh boat trip", 320, 3, 2, now))

		tours, err := repo.FindByParams(ctx, params)
		require.NoError(t, err)
		require.Len(t, tours, 2)
		assert.Equal(t, 1, tours[0].ID)
		assert.Equal(t, 2, tours[1].ID)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("no matches yields empty slice, not error", func(t *testing.T) {
		repo, mockPool := setupTourRepositoryTest(t)
		params := types.TourSearchParams{Places: []string{"atlantis"}, MaxBudget: 10, MaxDurationDays: 1}
		mockPool.ExpectQuery(`SELECT (.+) FROM tours`).
			WithArgs(params.Places, 10, 1, 0).
			WillReturnRows(pgxmock.NewRows(tourRows))

		tours, err := repo.FindByParams(ctx, params)
		require.NoError(t, err)
		assert.Empty(t, tours)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestPostgresTourRepository_ListAll(t *testing.T) {
	ctx := context.Background()

	t.Run("catalog failure wraps ErrCatalog", func(t *testing.T) {
		repo, mockPool := setupTourRepositoryTest(t)
		mockPool.ExpectQuery(`SELECT (.+) FROM tours ORDER BY id`).
			WillReturnError(assert.AnError)

		_, err := repo.ListAll(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrCatalog)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})
}
