package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"skb-backend/internal/config"
	"skb-backend/internal/logger"
	"skb-backend/internal/telemetry"
	"skb-backend/models"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// uploadAPI is the slice of the Cloudinary SDK the store needs.
type uploadAPI interface {
	Upload(ctx context.Context, file interface{}, uploadParams uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

// CloudinaryStore uploads gallery images to a fixed Cloudinary folder and
// deletes them by public id.
type CloudinaryStore struct {
	api     uploadAPI
	folder  string
	breaker *gobreaker.CircuitBreaker
	metrics *telemetry.Metrics
}

func NewCloudinaryStore(cfg *config.Config, metrics *telemetry.Metrics) (*CloudinaryStore, error) {
	if cfg.CloudName == "" || cfg.CloudAPIKey == "" || cfg.CloudSecret == "" {
		return nil, fmt.Errorf("CLOUD_NAME, CLOUD_API_KEY and CLOUD_SECRET are required")
	}
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.CloudAPIKey, cfg.CloudSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to configure cloudinary: %w", err)
	}
	return newStore(&cld.Upload, cfg.CloudinaryFolder, metrics), nil
}

func newStore(client uploadAPI, folder string, metrics *telemetry.Metrics) *CloudinaryStore {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "Cloudinary",
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
			metrics.RecordCircuitBreakerState(name, to.String())
		},
	})

	return &CloudinaryStore{
		api:     client,
		folder:  folder,
		breaker: breaker,
		metrics: metrics,
	}
}

// Upload streams r to Cloudinary. Every failure, including an open breaker,
// is reported as models.ErrAssetUploadFailed.
func (s *CloudinaryStore) Upload(ctx context.Context, r io.Reader, filename string) (*models.UploadedAsset, error) {
	ctx, span := otel.Tracer("cloudinary").Start(ctx, "cloudinary.upload")
	defer span.End()
	span.SetAttributes(
		attribute.String("cloudinary.folder", s.folder),
		attribute.String("cloudinary.filename", filename),
	)

	res, err := s.breaker.Execute(func() (interface{}, error) {
		resp, err := s.api.Upload(ctx, r, uploader.UploadParams{
			Folder:       s.folder,
			ResourceType: "image",
			UseFilename:  api.Bool(true),
		})
		if err != nil {
			return nil, err
		}
		if resp == nil {
			return nil, errors.New("empty upload response")
		}
		if resp.Error.Message != "" {
			return nil, errors.New(resp.Error.Message)
		}
		if resp.PublicID == "" || resp.SecureURL == "" {
			return nil, errors.New("empty upload response")
		}
		return resp, nil
	})
	s.metrics.RecordAssetOperation("upload", err == nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%w: %v", models.ErrAssetUploadFailed, err)
	}

	resp := res.(*uploader.UploadResult)
	span.SetAttributes(attribute.String("cloudinary.public_id", resp.PublicID))
	return &models.UploadedAsset{
		ImageURL:     resp.SecureURL,
		CloudinaryID: resp.PublicID,
	}, nil
}

// Delete removes an asset by public id. An asset Cloudinary no longer knows
// about counts as deleted.
func (s *CloudinaryStore) Delete(ctx context.Context, assetID string) error {
	ctx, span := otel.Tracer("cloudinary").Start(ctx, "cloudinary.destroy")
	defer span.End()
	span.SetAttributes(attribute.String("cloudinary.public_id", assetID))

	if assetID == "" {
		return fmt.Errorf("%w: empty asset id", models.ErrAssetDeleteFailed)
	}

	_, err := s.breaker.Execute(func() (interface{}, error) {
		resp, err := s.api.Destroy(ctx, uploader.DestroyParams{
			PublicID: assetID,
		})
		if err != nil {
			return nil, err
		}
		if resp == nil {
			return nil, errors.New("empty destroy response")
		}
		if resp.Error.Message != "" {
			return nil, errors.New(resp.Error.Message)
		}
		switch resp.Result {
		case "ok", "not found":
			return resp, nil
		default:
			return nil, fmt.Errorf("unexpected destroy result %q", resp.Result)
		}
	})
	s.metrics.RecordAssetOperation("destroy", err == nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("%w: %v", models.ErrAssetDeleteFailed, err)
	}
	return nil
}
