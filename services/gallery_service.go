package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"skb-backend/internal/logger"
	"skb-backend/internal/telemetry"
	"skb-backend/models"
	"skb-backend/utils"

	"github.com/google/uuid"
)

// GalleryService keeps the images of the site document and the hosted assets
// they point at in step.
//
// Update and Remove are read-modify-write over the whole images array. The
// write is conditional on the version read, so a concurrent writer makes the
// second caller fail with models.ErrConcurrentModification instead of
// silently losing the first caller's change. Assets are only deleted after
// the document stopped referencing them; a failed delete leaves an orphaned
// asset, which is logged and counted but not reported to the caller.
type GalleryService struct {
	store   SiteStore
	assets  AssetStore
	metrics *telemetry.Metrics
	now     func() time.Time
	newID   func() string
}

func NewGalleryService(store SiteStore, assets AssetStore, metrics *telemetry.Metrics) *GalleryService {
	return &GalleryService{
		store:   store,
		assets:  assets,
		metrics: metrics,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// UploadImage sends the multipart file to the asset store. Nothing is written
// to the site document here; the client registers the result separately.
func (s *GalleryService) UploadImage(ctx context.Context, file *multipart.FileHeader) (*models.UploadedAsset, error) {
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer src.Close()

	ctx, cancel := utils.WithLongTimeout(ctx)
	defer cancel()

	return s.assets.Upload(ctx, src, file.Filename)
}

func (s *GalleryService) ListImages(ctx context.Context) ([]models.ImageEntry, error) {
	return s.store.ListImages(ctx)
}

// Register appends a new entry with a fresh random imageId.
func (s *GalleryService) Register(ctx context.Context, req models.ImageRequest) (*models.ImageEntry, error) {
	now := s.now().UTC()
	entry := models.ImageEntry{
		ImageID:      s.newID(),
		ImageAlt:     req.ImageAlt,
		ImageURL:     req.ImageURL,
		CloudinaryID: req.CloudinaryID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.AppendImage(ctx, entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Update rewrites alt text, URL and asset reference of one entry. When the
// asset reference changes, the previous asset is deleted after the new
// reference has been committed.
func (s *GalleryService) Update(ctx context.Context, imageID string, req models.ImageRequest) (*models.ImageEntry, error) {
	site, err := s.loadImages(ctx)
	if err != nil {
		return nil, err
	}

	idx := indexOfImage(site.Images, imageID)
	if idx < 0 {
		return nil, models.ErrImageNotFound
	}

	images := make([]models.ImageEntry, len(site.Images))
	copy(images, site.Images)

	previousAsset := images[idx].CloudinaryID
	images[idx].ImageAlt = req.ImageAlt
	images[idx].ImageURL = req.ImageURL
	images[idx].CloudinaryID = req.CloudinaryID
	images[idx].UpdatedAt = s.now().UTC()

	if err := s.store.ReplaceImages(ctx, site.ID, site.Version, images); err != nil {
		return nil, err
	}

	if previousAsset != "" && previousAsset != req.CloudinaryID {
		s.discardAsset(ctx, "update", imageID, previousAsset)
	}

	updated := images[idx]
	return &updated, nil
}

// Remove drops one entry and then deletes its asset. An unknown imageId is
// reported as models.ErrImageNotFound and leaves the document untouched.
func (s *GalleryService) Remove(ctx context.Context, imageID string) error {
	site, err := s.loadImages(ctx)
	if err != nil {
		return err
	}

	idx := indexOfImage(site.Images, imageID)
	if idx < 0 {
		return models.ErrImageNotFound
	}

	removed := site.Images[idx]
	images := make([]models.ImageEntry, 0, len(site.Images)-1)
	images = append(images, site.Images[:idx]...)
	images = append(images, site.Images[idx+1:]...)

	if err := s.store.ReplaceImages(ctx, site.ID, site.Version, images); err != nil {
		return err
	}

	if removed.CloudinaryID != "" {
		s.discardAsset(ctx, "remove", imageID, removed.CloudinaryID)
	}
	return nil
}

func (s *GalleryService) loadImages(ctx context.Context) (*models.SiteDocument, error) {
	site, err := s.store.LoadSite(ctx)
	if err != nil {
		return nil, err
	}
	if site.Images == nil {
		return nil, models.ErrDocumentNotFound
	}
	return site, nil
}

// discardAsset runs after the document commit, so it must not be cut short
// by the request going away.
func (s *GalleryService) discardAsset(ctx context.Context, operation, imageID, assetID string) {
	ctx, cancel := utils.WithLongTimeout(context.WithoutCancel(ctx))
	defer cancel()

	if err := s.assets.Delete(ctx, assetID); err != nil {
		logger.Error("Asset left orphaned after site document commit",
			"operation", operation,
			"image_id", imageID,
			"cloudinary_id", assetID,
			"error", err,
		)
		s.metrics.RecordOrphanedAsset(operation)
	}
}

func indexOfImage(images []models.ImageEntry, imageID string) int {
	for i, img := range images {
		if img.ImageID == imageID {
			return i
		}
	}
	return -1
}
