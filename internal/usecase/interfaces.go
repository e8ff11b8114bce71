package usecase

import (
	"context"
	"time"
)

// IdentityProvider verifies an ID token issued after phone-OTP login.
type IdentityProvider interface {
	VerifyToken(ctx context.Context, token string) (uid string, phone string, err error)
}

type MediaKind string

const (
	MediaImage MediaKind = "images"
	MediaVideo MediaKind = "videos"
)

type UploadTarget struct {
	UploadURL string    `json:"upload_url"`
	PublicURL string    `json:"public_url"`
	Object    string    `json:"object"`
	ExpiresAt time.Time `json:"expires_at"`
}

// MediaStore is the blob store that holds listing photos and videos.
// Objects are addressed by their public URL.
type MediaStore interface {
	SignedUploadURL(ctx context.Context, ownerID string, kind MediaKind, contentType string) (*UploadTarget, error)
	Exists(ctx context.Context, url string) (bool, error)
	Delete(ctx context.Context, url string) error
}
