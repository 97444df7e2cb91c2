package services

import (
	"context"
	"io"

	"skb-backend/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SiteStore persists the site document. ReplaceImages must fail with
// models.ErrConcurrentModification when the stored version moved on.
type SiteStore interface {
	ListImages(ctx context.Context) ([]models.ImageEntry, error)
	AppendImage(ctx context.Context, entry models.ImageEntry) error
	LoadSite(ctx context.Context) (*models.SiteDocument, error)
	ReplaceImages(ctx context.Context, id primitive.ObjectID, expectedVersion int64, images []models.ImageEntry) error
	SetPesertaPaket(ctx context.Context, stats models.PesertaPaket) error
	GetPesertaPaket(ctx context.Context) (*models.PesertaPaket, error)
}

// AssetStore hosts the image binaries.
type AssetStore interface {
	Upload(ctx context.Context, r io.Reader, filename string) (*models.UploadedAsset, error)
	Delete(ctx context.Context, assetID string) error
}

type CredentialStore interface {
	FindByUsername(ctx context.Context, username string) (*models.Credential, error)
}
