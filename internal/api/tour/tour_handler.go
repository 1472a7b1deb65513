package tour

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/travelica/travelica-backend/internal/api"
	"github.com/travelica/travelica-backend/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	GetTourDetail(w http.ResponseWriter, r *http.Request)
	GetAllTours(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	logger  *slog.Logger
	service Service
}

func NewTourHandler(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		logger:  logger,
		service: service,
	}
}

// GetTourDetail handles GET /api/v1/tour_detail/{id}.
func (h *HandlerImpl) GetTourDetail(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TourHandler").Start(r.Context(), "GetTourDetail")
	defer span.End()

	l := h.logger.With(slog.String("method", "GetTourDetail"))

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		l.WarnContext(ctx, "Invalid tour id", slog.String("id", chi.URLParam(r, "id")))
		span.SetStatus(codes.Error, "Invalid tour id")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid tour id")
		return
	}

	tour, err := h.service.GetTour(ctx, id)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, types.ErrNotFound) {
			span.SetStatus(codes.Error, "Tour not found")
			api.ErrorResponse(w, r, http.StatusNotFound, "Tour not found")
			return
		}
		l.ErrorContext(ctx, "Failed to fetch tour", slog.Int("id", id), slog.Any("error", err))
		span.SetStatus(codes.Error, "Catalog lookup failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, tour)
}

// GetAllTours handles GET /api/v1/tours.
func (h *HandlerImpl) GetAllTours(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TourHandler").Start(r.Context(), "GetAllTours")
	defer span.End()

	l := h.logger.With(slog.String("method", "GetAllTours"))

	tours, err := h.service.GetAllTours(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list tours", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Catalog list failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	if tours == nil {
		tours = []types.Tour{}
	}

	api.WriteJSONResponse(w, r, http.StatusOK, tours)
}
