package intent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	dialogflow "cloud.google.com/go/dialogflow/apiv2"
	"cloud.google.com/go/dialogflow/apiv2/dialogflowpb"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/travelica/travelica-backend/app/observability/metrics"
	"github.com/travelica/travelica-backend/internal/types"
)

const callTimeout = 15 * time.Second

var gatewayAttr = metric.WithAttributes(attribute.String("gateway", "intent"))

// Category is the classified kind of chat turn, resolved once from the
// raw intent display name. Resolving up front keeps the orchestrator's
// dispatch exhaustive instead of chaining prefix checks per branch.
type Category int

const (
	CategoryGeneral Category = iota
	CategoryTourFAQ
	CategoryOCR
	CategoryLandmark
)

// CategoryOf maps an intent display name onto its Category. Intent names
// follow a prefix convention (FAQ*, OCR*, LOC*); anything else is general
// smalltalk.
func CategoryOf(intentName string) Category {
	name := strings.TrimSpace(intentName)
	switch {
	case strings.HasPrefix(name, "FAQ"):
		return CategoryTourFAQ
	case strings.HasPrefix(name, "OCR"):
		return CategoryOCR
	case strings.HasPrefix(name, "LOC"):
		return CategoryLandmark
	default:
		return CategoryGeneral
	}
}

var _ Service = (*DialogflowService)(nil)

// Service is the intent-detection gateway consumed by the chat orchestrator.
type Service interface {
	// Detect classifies one turn of text within the given session and
	// returns the normalized result.
	Detect(ctx context.Context, sessionID, text, languageCode string) (*types.IntentResult, error)
}

// DialogflowService wraps the Dialogflow ES sessions client.
type DialogflowService struct {
	logger    *slog.Logger
	client    *dialogflow.SessionsClient
	projectID string
}

func NewDialogflowService(client *dialogflow.SessionsClient, projectID string, logger *slog.Logger) *DialogflowService {
	return &DialogflowService{
		logger:    logger,
		client:    client,
		projectID: projectID,
	}
}

func (s *DialogflowService) Detect(ctx context.Context, sessionID, text, languageCode string) (*types.IntentResult, error) {
	ctx, span := otel.Tracer("IntentService").Start(ctx, "Detect")
	defer span.End()
	span.SetAttributes(attribute.String("dialogflow.session_id", sessionID))

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	req := &dialogflowpb.DetectIntentRequest{
		Session: fmt.Sprintf("projects/%s/agent/sessions/%s", s.projectID, sessionID),
		QueryInput: &dialogflowpb.QueryInput{
			Input: &dialogflowpb.QueryInput_Text{
				Text: &dialogflowpb.TextInput{
					Text:         text,
					LanguageCode: languageCode,
				},
			},
		},
	}

	start := time.Now()
	resp, err := s.client.DetectIntent(ctx, req)
	metrics.Get().GatewayCallDurationSeconds.Record(ctx, time.Since(start).Seconds(), gatewayAttr)
	if err != nil {
		metrics.Get().GatewayCallErrorsTotal.Add(ctx, 1, gatewayAttr)
		span.RecordError(err)
		span.SetStatus(codes.Error, "DetectIntent call failed")
		s.logger.ErrorContext(ctx, "DetectIntent call failed", slog.Any("error", err))
		return nil, fmt.Errorf("%w: detect intent: %v", types.ErrUpstream, err)
	}

	result := resp.GetQueryResult()
	out := &types.IntentResult{
		FulfillmentText: result.GetFulfillmentText(),
		IntentName:      result.GetIntent().GetDisplayName(),
		Parameters:      result.GetParameters(),
	}
	for _, c := range result.GetOutputContexts() {
		out.OutputContextNames = append(out.OutputContextNames, contextShortName(c.GetName()))
	}
	// The newest output context carries the conversation's most recent
	// collected parameters; extraction falls back to it per field.
	if n := len(result.GetOutputContexts()); n > 0 {
		out.ContextParameters = result.GetOutputContexts()[n-1].GetParameters()
	}

	span.SetAttributes(attribute.String("dialogflow.intent", out.IntentName))
	return out, nil
}

// contextShortName strips the projects/.../contexts/ resource prefix.
func contextShortName(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}
