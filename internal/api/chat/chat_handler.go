package chat

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/travelica/travelica-backend/internal/api"
	"github.com/travelica/travelica-backend/internal/types"
)

// maxUploadBytes bounds the multipart form, image included.
const maxUploadBytes = 10 << 20

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	Chat(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	logger     *slog.Logger
	service    Service
	cookies    sessions.Store
	cookieName string
}

func NewChatHandler(service Service, cookies sessions.Store, cookieName string, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		logger:     logger,
		service:    service,
		cookies:    cookies,
		cookieName: cookieName,
	}
}

// Chat handles POST /api/v1/chat. The body is a form with a required
// `message` field and an optional `file` image; the opaque session id
// rides a signed cookie.
func (h *HandlerImpl) Chat(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ChatHandler").Start(r.Context(), "Chat")
	defer span.End()

	l := h.logger.With(slog.String("method", "Chat"))

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	message := r.FormValue("message")
	if strings.TrimSpace(message) == "" {
		span.SetStatus(codes.Error, "Message missing")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Message is required")
		return
	}

	// Get never fails into a nil session; a bad or absent cookie yields a
	// fresh one and we mint the id ourselves.
	session, _ := h.cookies.Get(r, h.cookieName)
	sessionID, ok := session.Values["id"].(string)
	if !ok || sessionID == "" {
		sessionID = uuid.NewString()
		session.Values["id"] = sessionID
		if err := session.Save(r, w); err != nil {
			l.WarnContext(ctx, "Failed to persist session cookie", slog.Any("error", err))
		}
	}

	var att *types.Attachment
	if file, header, err := r.FormFile("file"); err == nil {
		defer file.Close()
		data, readErr := io.ReadAll(file)
		if readErr != nil {
			l.WarnContext(ctx, "Failed to read uploaded file", slog.Any("error", readErr))
			span.SetStatus(codes.Error, "Unreadable upload")
			api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid image file or missing file")
			return
		}
		att = &types.Attachment{Filename: header.Filename, Data: data}
	}

	reply, err := h.service.HandleTurn(ctx, sessionID, message, att)
	if err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, types.ErrEmptyMessage):
			api.ErrorResponse(w, r, http.StatusBadRequest, "Message is required")
		case errors.Is(err, types.ErrInvalidImage):
			api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid image file or missing file")
		case errors.Is(err, types.ErrCatalog):
			api.ErrorResponse(w, r, http.StatusInternalServerError, err.Error())
		default:
			// Upstream service failures and malformed intent results both
			// surface as a bad gateway; nothing is retried.
			l.ErrorContext(ctx, "Chat turn failed", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusBadGateway, "Upstream service failure")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, reply)
}
