package vision

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/travelica/travelica-backend/app/observability/metrics"
	"github.com/travelica/travelica-backend/internal/types"
)

const callTimeout = 15 * time.Second

var gatewayAttr = metric.WithAttributes(attribute.String("gateway", "vision"))

// imageExtensions are the only accepted upload extensions. The check is
// case-sensitive and looks at the filename only, never at content; this
// mirrors the original contract and is a documented, deliberate limitation.
var imageExtensions = []string{".jpg", ".jpeg", ".png"}

// ValidImageName reports whether filename carries an accepted image extension.
func ValidImageName(filename string) bool {
	for _, ext := range imageExtensions {
		if strings.HasSuffix(filename, ext) {
			return true
		}
	}
	return false
}

// ValidAttachment reports whether the attachment is present and validly named.
func ValidAttachment(att *types.Attachment) bool {
	return att != nil && ValidImageName(att.Filename)
}

var _ Service = (*GoogleService)(nil)

// Service is the image-analysis gateway consumed by the chat orchestrator.
type Service interface {
	// ReadText extracts the full text block recognized in the image.
	ReadText(ctx context.Context, image []byte) (string, error)

	// FindLandmark returns the top recognized landmark with its
	// coordinates and derived map link.
	FindLandmark(ctx context.Context, image []byte) (*types.Location, error)
}

// GoogleService wraps the Cloud Vision image annotator client.
type GoogleService struct {
	logger *slog.Logger
	client *vision.ImageAnnotatorClient
}

func NewGoogleService(client *vision.ImageAnnotatorClient, logger *slog.Logger) *GoogleService {
	return &GoogleService{
		logger: logger,
		client: client,
	}
}

func (s *GoogleService) ReadText(ctx context.Context, image []byte) (string, error) {
	ctx, span := otel.Tracer("VisionService").Start(ctx, "ReadText")
	defer span.End()

	resp, err := s.annotate(ctx, image, visionpb.Feature_TEXT_DETECTION)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Text detection failed")
		return "", err
	}
	return resp.GetFullTextAnnotation().GetText(), nil
}

func (s *GoogleService) FindLandmark(ctx context.Context, image []byte) (*types.Location, error) {
	ctx, span := otel.Tracer("VisionService").Start(ctx, "FindLandmark")
	defer span.End()

	resp, err := s.annotate(ctx, image, visionpb.Feature_LANDMARK_DETECTION)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Landmark detection failed")
		return nil, err
	}

	landmarks := resp.GetLandmarkAnnotations()
	if len(landmarks) == 0 || len(landmarks[0].GetLocations()) == 0 {
		err = fmt.Errorf("%w: no landmark recognized in image", types.ErrUpstream)
		span.RecordError(err)
		span.SetStatus(codes.Error, "No landmark recognized")
		return nil, err
	}

	top := landmarks[0]
	latLng := top.GetLocations()[0].GetLatLng()
	return &types.Location{
		Name:         top.GetDescription(),
		Latitude:     latLng.GetLatitude(),
		Longitude:    latLng.GetLongitude(),
		GoogleMapURL: MapLink(latLng.GetLatitude(), latLng.GetLongitude(), DefaultZoom),
	}, nil
}

func (s *GoogleService) annotate(ctx context.Context, image []byte, feature visionpb.Feature_Type) (*visionpb.AnnotateImageResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	start := time.Now()
	resp, err := s.client.AnnotateImage(ctx, &visionpb.AnnotateImageRequest{
		Image:    &visionpb.Image{Content: image},
		Features: []*visionpb.Feature{{Type: feature}},
	})
	metrics.Get().GatewayCallDurationSeconds.Record(ctx, time.Since(start).Seconds(), gatewayAttr)
	if err != nil {
		metrics.Get().GatewayCallErrorsTotal.Add(ctx, 1, gatewayAttr)
		s.logger.ErrorContext(ctx, "Vision annotate call failed",
			slog.String("feature", feature.String()), slog.Any("error", err))
		return nil, fmt.Errorf("%w: vision %s: %v", types.ErrUpstream, feature.String(), err)
	}
	if respErr := resp.GetError(); respErr != nil {
		metrics.Get().GatewayCallErrorsTotal.Add(ctx, 1, gatewayAttr)
		return nil, fmt.Errorf("%w: vision %s: %s", types.ErrUpstream, feature.String(), respErr.GetMessage())
	}
	return resp, nil
}
