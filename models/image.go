package models

import "time"

// ImageEntry is a single gallery image stored inside the site document.
// Entries are only ever addressed through their ImageID, which is generated
// by the service rather than by the database.
type ImageEntry struct {
	ImageID      string    `bson:"imageId" json:"imageId"`
	ImageAlt     string    `bson:"imageAlt" json:"imageAlt"`
	ImageURL     string    `bson:"imageUrl" json:"imageUrl"`
	CloudinaryID string    `bson:"cloudinaryId,omitempty" json:"cloudinaryId,omitempty"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ImageRequest is the body accepted by POST /images and PUT /images/:id.
type ImageRequest struct {
	ImageAlt     string `json:"imageAlt"`
	ImageURL     string `json:"imageUrl" binding:"required"`
	CloudinaryID string `json:"cloudinaryId"`
}

// UploadedAsset is what the asset store hands back after a successful upload.
type UploadedAsset struct {
	ImageURL     string `json:"imageUrl"`
	CloudinaryID string `json:"cloudinaryId"`
}
