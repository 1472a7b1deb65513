package translation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/translate"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/text/language"

	"github.com/travelica/travelica-backend/app/observability/metrics"
	"github.com/travelica/travelica-backend/internal/types"
)

const callTimeout = 15 * time.Second

var gatewayAttr = metric.WithAttributes(attribute.String("gateway", "translate"))

var _ Service = (*GoogleService)(nil)

// Service is the translation gateway consumed by the chat orchestrator.
type Service interface {
	// TranslateText translates text into targetLang and returns only the
	// translated text.
	TranslateText(ctx context.Context, text, targetLang string) (string, error)

	// TranslateWithDetection translates text into targetLang and returns
	// the translated text plus the detected source language code.
	TranslateWithDetection(ctx context.Context, text, targetLang string) (string, string, error)
}

// GoogleService wraps the Cloud Translation basic-edition client.
type GoogleService struct {
	logger *slog.Logger
	client *translate.Client
}

func NewGoogleService(client *translate.Client, logger *slog.Logger) *GoogleService {
	return &GoogleService{
		logger: logger,
		client: client,
	}
}

func (s *GoogleService) TranslateText(ctx context.Context, text, targetLang string) (string, error) {
	t, err := s.translate(ctx, text, targetLang)
	if err != nil {
		return "", err
	}
	return t.Text, nil
}

func (s *GoogleService) TranslateWithDetection(ctx context.Context, text, targetLang string) (string, string, error) {
	t, err := s.translate(ctx, text, targetLang)
	if err != nil {
		return "", "", err
	}
	return t.Text, t.Source.String(), nil
}

func (s *GoogleService) translate(ctx context.Context, text, targetLang string) (*translate.Translation, error) {
	ctx, span := otel.Tracer("TranslationService").Start(ctx, "translate")
	defer span.End()
	span.SetAttributes(attribute.String("translate.target", targetLang))

	target, err := language.Parse(targetLang)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid target language")
		return nil, fmt.Errorf("invalid target language %q: %w", targetLang, err)
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	start := time.Now()
	translations, err := s.client.Translate(ctx, []string{text}, target, nil)
	metrics.Get().GatewayCallDurationSeconds.Record(ctx, time.Since(start).Seconds(),
		gatewayAttr)
	if err != nil {
		metrics.Get().GatewayCallErrorsTotal.Add(ctx, 1, gatewayAttr)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Translate call failed")
		s.logger.ErrorContext(ctx, "Translate call failed", slog.Any("error", err))
		return nil, fmt.Errorf("%w: translate: %v", types.ErrUpstream, err)
	}
	if len(translations) == 0 {
		err = fmt.Errorf("%w: translate returned no results", types.ErrUpstream)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Empty translate result")
		return nil, err
	}
	return &translations[0], nil
}
