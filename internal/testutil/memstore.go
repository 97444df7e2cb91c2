// Package testutil holds in-memory stand-ins for the Mongo and Cloudinary
// backed stores, used by service and route tests.
package testutil

import (
	"context"
	"io"
	"sync"

	"skb-backend/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SiteStore keeps the site document in memory with the same version
// semantics as the Mongo repository.
type SiteStore struct {
	mu   sync.Mutex
	site *models.SiteDocument

	// BeforeReplace runs before ReplaceImages takes the lock; tests use it to
	// slip in a concurrent write.
	BeforeReplace func()
	// AppendResultEmpty makes AppendImage behave like an update that matched
	// nothing and created nothing.
	AppendResultEmpty bool
	Err               error
}

func NewSiteStore() *SiteStore {
	return &SiteStore{}
}

// Seed replaces the stored document. A nil images slice models a document
// without an images field.
func (s *SiteStore) Seed(images []models.ImageEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.site = &models.SiteDocument{ID: primitive.NewObjectID(), Images: cloneImages(images)}
}

// Snapshot returns a copy of the stored document, or nil when absent.
func (s *SiteStore) Snapshot() *models.SiteDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneSite(s.site)
}

// Touch bumps the version as any other writer would.
func (s *SiteStore) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.site != nil {
		s.site.Version++
	}
}

func (s *SiteStore) ListImages(ctx context.Context) ([]models.ImageEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if s.site == nil || s.site.Images == nil {
		return []models.ImageEntry{}, nil
	}
	return cloneImages(s.site.Images), nil
}

func (s *SiteStore) AppendImage(ctx context.Context, entry models.ImageEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if s.AppendResultEmpty {
		return models.ErrPersistence
	}
	s.ensure()
	s.site.Images = append(s.site.Images, entry)
	s.site.Version++
	return nil
}

func (s *SiteStore) LoadSite(ctx context.Context) (*models.SiteDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if s.site == nil {
		return nil, models.ErrDocumentNotFound
	}
	return cloneSite(s.site), nil
}

func (s *SiteStore) ReplaceImages(ctx context.Context, id primitive.ObjectID, expectedVersion int64, images []models.ImageEntry) error {
	if s.BeforeReplace != nil {
		s.BeforeReplace()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if s.site == nil || s.site.ID != id || s.site.Version != expectedVersion {
		return models.ErrConcurrentModification
	}
	s.site.Images = cloneImages(images)
	if s.site.Images == nil {
		s.site.Images = []models.ImageEntry{}
	}
	s.site.Version++
	return nil
}

func (s *SiteStore) SetPesertaPaket(ctx context.Context, stats models.PesertaPaket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.ensure()
	s.site.PesertaPaket = &stats
	return nil
}

func (s *SiteStore) GetPesertaPaket(ctx context.Context) (*models.PesertaPaket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if s.site == nil || s.site.PesertaPaket == nil {
		return &models.PesertaPaket{}, nil
	}
	stats := *s.site.PesertaPaket
	return &stats, nil
}

func (s *SiteStore) ensure() {
	if s.site == nil {
		s.site = &models.SiteDocument{ID: primitive.NewObjectID()}
	}
}

func cloneSite(site *models.SiteDocument) *models.SiteDocument {
	if site == nil {
		return nil
	}
	out := *site
	out.Images = cloneImages(site.Images)
	if site.PesertaPaket != nil {
		stats := *site.PesertaPaket
		out.PesertaPaket = &stats
	}
	return &out
}

func cloneImages(images []models.ImageEntry) []models.ImageEntry {
	if images == nil {
		return nil
	}
	out := make([]models.ImageEntry, len(images))
	copy(out, images)
	return out
}

// AssetStore records calls instead of talking to Cloudinary.
type AssetStore struct {
	mu      sync.Mutex
	Uploads []string
	Deletes []string

	UploadErr error
	DeleteErr error
	// OnDelete runs inside Delete before the call is recorded.
	OnDelete func(assetID string)
}

func NewAssetStore() *AssetStore {
	return &AssetStore{}
}

func (a *AssetStore) Upload(ctx context.Context, r io.Reader, filename string) (*models.UploadedAsset, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.UploadErr != nil {
		return nil, a.UploadErr
	}
	a.Uploads = append(a.Uploads, filename)
	id := "magang/" + filename
	return &models.UploadedAsset{
		ImageURL:     "https://res.cloudinary.com/demo/image/upload/" + id,
		CloudinaryID: id,
	}, nil
}

func (a *AssetStore) Delete(ctx context.Context, assetID string) error {
	if a.OnDelete != nil {
		a.OnDelete(assetID)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.Deletes = append(a.Deletes, assetID)
	return a.DeleteErr
}

// DeletedIDs returns a copy of the delete calls seen so far.
func (a *AssetStore) DeletedIDs() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.Deletes...)
}

// CredentialStore serves a fixed set of credentials.
type CredentialStore struct {
	Credentials map[string]string
}

func (c *CredentialStore) FindByUsername(ctx context.Context, username string) (*models.Credential, error) {
	hash, ok := c.Credentials[username]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	return &models.Credential{Username: username, PasswordHash: hash}, nil
}
