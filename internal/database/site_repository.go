package database

import (
	"context"
	"errors"
	"fmt"

	"skb-backend/internal/telemetry"
	"skb-backend/models"
	"skb-backend/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SiteRepository owns the singleton site document. Every query uses an empty
// or _id filter because a deployment never holds more than one document.
type SiteRepository struct {
	collection *mongo.Collection
	metrics    *telemetry.Metrics
}

func NewSiteRepository(db *mongo.Database, collection string, metrics *telemetry.Metrics) *SiteRepository {
	return &SiteRepository{
		collection: db.Collection(collection),
		metrics:    metrics,
	}
}

// ListImages returns the images in insertion order. A missing document or
// images field yields an empty slice.
func (r *SiteRepository) ListImages(ctx context.Context) ([]models.ImageEntry, error) {
	ctx, cancel := utils.WithTimeout(ctx)
	defer cancel()

	var site models.SiteDocument
	opts := options.FindOne().SetProjection(bson.M{"images": 1, "_id": 0})
	err := r.collection.FindOne(ctx, bson.M{}, opts).Decode(&site)
	r.record("find", err == nil || errors.Is(err, mongo.ErrNoDocuments))
	if errors.Is(err, mongo.ErrNoDocuments) {
		return []models.ImageEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load images: %w", err)
	}

	if site.Images == nil {
		return []models.ImageEntry{}, nil
	}
	return site.Images, nil
}

// AppendImage pushes entry onto images, creating the document if needed.
func (r *SiteRepository) AppendImage(ctx context.Context, entry models.ImageEntry) error {
	ctx, cancel := utils.WithTimeout(ctx)
	defer cancel()

	update := bson.M{
		"$push": bson.M{"images": entry},
		"$inc":  bson.M{"version": 1},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{}, update, options.Update().SetUpsert(true))
	r.record("push", err == nil)
	if err != nil {
		return fmt.Errorf("failed to append image: %w", err)
	}
	if res.ModifiedCount == 0 && res.UpsertedCount == 0 {
		return models.ErrPersistence
	}
	return nil
}

// LoadSite reads the images and version of the document. pesertaPaket is left
// out so that an image edit never depends on how the statistics were stored.
func (r *SiteRepository) LoadSite(ctx context.Context) (*models.SiteDocument, error) {
	ctx, cancel := utils.WithTimeout(ctx)
	defer cancel()

	var site models.SiteDocument
	opts := options.FindOne().SetProjection(bson.M{"_id": 1, "images": 1, "version": 1})
	err := r.collection.FindOne(ctx, bson.M{}, opts).Decode(&site)
	r.record("find", err == nil || errors.Is(err, mongo.ErrNoDocuments))
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load site document: %w", err)
	}
	return &site, nil
}

// ReplaceImages writes images back only if the document still carries
// expectedVersion. Documents written before versioning have no version field
// and are matched as version 0.
func (r *SiteRepository) ReplaceImages(ctx context.Context, id primitive.ObjectID, expectedVersion int64, images []models.ImageEntry) error {
	ctx, cancel := utils.WithTimeout(ctx)
	defer cancel()

	if images == nil {
		images = []models.ImageEntry{}
	}

	filter := bson.M{"_id": id, "version": expectedVersion}
	if expectedVersion == 0 {
		filter = bson.M{"_id": id, "version": bson.M{"$in": bson.A{0, nil}}}
	}
	update := bson.M{
		"$set": bson.M{"images": images},
		"$inc": bson.M{"version": 1},
	}

	res, err := r.collection.UpdateOne(ctx, filter, update)
	r.record("replace_images", err == nil)
	if err != nil {
		return fmt.Errorf("failed to write images: %w", err)
	}
	if res.MatchedCount == 0 {
		return models.ErrConcurrentModification
	}
	return nil
}

// SetPesertaPaket overwrites the statistics sub-document; last write wins.
// version guards images only and is left alone here.
func (r *SiteRepository) SetPesertaPaket(ctx context.Context, stats models.PesertaPaket) error {
	ctx, cancel := utils.WithTimeout(ctx)
	defer cancel()

	update := bson.M{"$set": bson.M{"pesertaPaket": stats}}
	_, err := r.collection.UpdateOne(ctx, bson.M{}, update, options.Update().SetUpsert(true))
	r.record("set_peserta_paket", err == nil)
	if err != nil {
		return fmt.Errorf("failed to update peserta paket: %w", err)
	}
	return nil
}

// GetPesertaPaket returns zero counts when nothing has been written yet.
func (r *SiteRepository) GetPesertaPaket(ctx context.Context) (*models.PesertaPaket, error) {
	ctx, cancel := utils.WithTimeout(ctx)
	defer cancel()

	var site models.SiteDocument
	opts := options.FindOne().SetProjection(bson.M{"pesertaPaket": 1, "_id": 0})
	err := r.collection.FindOne(ctx, bson.M{}, opts).Decode(&site)
	r.record("find", err == nil || errors.Is(err, mongo.ErrNoDocuments))
	if errors.Is(err, mongo.ErrNoDocuments) || (err == nil && site.PesertaPaket == nil) {
		return &models.PesertaPaket{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load peserta paket: %w", err)
	}
	return site.PesertaPaket, nil
}

func (r *SiteRepository) record(operation string, success bool) {
	r.metrics.RecordDatabaseOperation(operation, r.collection.Name(), success)
}
