package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/travelica/travelica-backend/app/observability/metrics"
	"github.com/travelica/travelica-backend/internal/api/intent"
	"github.com/travelica/travelica-backend/internal/api/tour"
	"github.com/travelica/travelica-backend/internal/api/translation"
	"github.com/travelica/travelica-backend/internal/api/vision"
	"github.com/travelica/travelica-backend/internal/types"
)

// faqTourDetailContext is the output context that gates the tour-FAQ
// branch: it must be the only active context for the branch to run.
const faqTourDetailContext = "faq-tour-detail"

// Pivot-language sources for the canned FAQ strings; both are translated
// into the session language before they leave the service.
const (
	noTourFoundMessage = "Sorry! I couldn't find any tour that matches your request."
	clickPromptMessage = "Click on a tour to see the full details!"
)

var _ Service = (*ServiceImpl)(nil)

// Service runs one chat turn end to end.
type Service interface {
	HandleTurn(ctx context.Context, sessionID, message string, att *types.Attachment) (*types.ChatResponse, error)
}

// ServiceImpl is the chat orchestrator. Per turn it pivots the inbound
// message, classifies it, runs the branch the intent category selects and
// localizes every outbound string into the session's preferred language.
type ServiceImpl struct {
	logger        *slog.Logger
	translator    translation.Service
	vision        vision.Service
	intents       intent.Service
	tours         tour.Service
	sessions      SessionStore
	pivotLanguage string
}

func NewChatService(
	translator translation.Service,
	visionSvc vision.Service,
	intents intent.Service,
	tours tour.Service,
	sessions SessionStore,
	pivotLanguage string,
	logger *slog.Logger,
) *ServiceImpl {
	return &ServiceImpl{
		logger:        logger,
		translator:    translator,
		vision:        visionSvc,
		intents:       intents,
		tours:         tours,
		sessions:      sessions,
		pivotLanguage: pivotLanguage,
	}
}

func (s *ServiceImpl) HandleTurn(ctx context.Context, sessionID, message string, att *types.Attachment) (*types.ChatResponse, error) {
	ctx, span := otel.Tracer("ChatService").Start(ctx, "HandleTurn")
	defer span.End()
	span.SetAttributes(attribute.String("chat.session_id", sessionID))

	l := s.logger.With(slog.String("method", "HandleTurn"), slog.String("session_id", sessionID))

	if strings.TrimSpace(message) == "" {
		return nil, types.ErrEmptyMessage
	}
	metrics.Get().ChatTurnsTotal.Add(ctx, 1)

	pivotText, detectedLang, err := s.translator.TranslateWithDetection(ctx, message, s.pivotLanguage)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Inbound translation failed")
		return nil, fmt.Errorf("translating inbound message: %w", err)
	}

	// A returning session keeps its established language even when a later
	// message is detected in a different one. The preference is written
	// only here, after a successful detection.
	targetLang, ok := s.sessions.Language(sessionID)
	if !ok {
		targetLang = detectedLang
		s.sessions.SetLanguage(sessionID, detectedLang)
		l.InfoContext(ctx, "Session language established", slog.String("language", detectedLang))
	}

	result, err := s.intents.Detect(ctx, sessionID, pivotText, s.pivotLanguage)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Intent detection failed")
		return nil, fmt.Errorf("detecting intent: %w", err)
	}
	span.SetAttributes(attribute.String("chat.intent", result.IntentName))

	response, err := s.translator.TranslateText(ctx, result.FulfillmentText, targetLang)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Response translation failed")
		return nil, fmt.Errorf("translating fulfillment text: %w", err)
	}
	reply := &types.ChatResponse{Response: response}

	switch intent.CategoryOf(result.IntentName) {
	case intent.CategoryTourFAQ:
		if !isTourDetailFAQ(result.OutputContextNames) {
			break
		}
		if err := s.handleTourFAQ(ctx, result, targetLang, reply); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Tour FAQ branch failed")
			return nil, err
		}

	case intent.CategoryOCR:
		if !vision.ValidAttachment(att) {
			return nil, types.ErrInvalidImage
		}
		text, err := s.vision.ReadText(ctx, att.Data)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "OCR failed")
			return nil, fmt.Errorf("reading text from image: %w", err)
		}
		translated, err := s.translator.TranslateText(ctx, text, targetLang)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "OCR translation failed")
			return nil, fmt.Errorf("translating OCR text: %w", err)
		}
		reply.OCRResponse = translated

	case intent.CategoryLandmark:
		if !vision.ValidAttachment(att) {
			return nil, types.ErrInvalidImage
		}
		location, err := s.vision.FindLandmark(ctx, att.Data)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Landmark lookup failed")
			return nil, fmt.Errorf("finding landmark: %w", err)
		}
		name, err := s.translator.TranslateText(ctx, location.Name, targetLang)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Landmark name translation failed")
			return nil, fmt.Errorf("translating landmark name: %w", err)
		}
		location.Name = name
		reply.LocationResponse = location

	case intent.CategoryGeneral:
		// Only the fulfillment text goes back.
	}

	return reply, nil
}

// handleTourFAQ extracts the search filter, queries the catalog and fills
// the FAQ fields of the reply, localized for the session.
func (s *ServiceImpl) handleTourFAQ(ctx context.Context, result *types.IntentResult, targetLang string, reply *types.ChatResponse) error {
	params, err := intent.ExtractTourParams(result)
	if err != nil {
		return fmt.Errorf("extracting tour search params: %w", err)
	}

	tours, err := s.tours.SearchTours(ctx, *params)
	if err != nil {
		return fmt.Errorf("searching tours: %w", err)
	}

	if len(tours) == 0 {
		msg, err := s.translator.TranslateText(ctx, noTourFoundMessage, targetLang)
		if err != nil {
			return fmt.Errorf("translating no-tour message: %w", err)
		}
		reply.NoTourFoundMessage = msg
		return nil
	}

	// Matched tours are independent, so their detail translations fan out;
	// results stay indexed to preserve catalog order.
	details := make([]types.TourDetailItem, len(tours))
	g, gctx := errgroup.WithContext(ctx)
	for i, t := range tours {
		g.Go(func() error {
			translated, err := s.translator.TranslateText(gctx, t.Destination, targetLang)
			if err != nil {
				return fmt.Errorf("translating tour %d details: %w", t.ID, err)
			}
			details[i] = types.TourDetailItem{ID: t.ID, Details: translated}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	prompt, err := s.translator.TranslateText(ctx, clickPromptMessage, targetLang)
	if err != nil {
		return fmt.Errorf("translating click prompt: %w", err)
	}

	reply.TourDetail = details
	reply.ClickPrompt = prompt
	return nil
}

func isTourDetailFAQ(contextNames []string) bool {
	return len(contextNames) == 1 && contextNames[0] == faqTourDetailContext
}
