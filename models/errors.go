package models

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrPasswordMismatch = errors.New("password mismatch")

	ErrDocumentNotFound       = errors.New("site document not found")
	ErrImageNotFound          = errors.New("image not found")
	ErrPersistence            = errors.New("write reported no effect")
	ErrConcurrentModification = errors.New("site document was modified concurrently")

	ErrAssetUploadFailed = errors.New("asset upload failed")
	ErrAssetDeleteFailed = errors.New("asset delete failed")
)
