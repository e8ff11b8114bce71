package storage

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/usecase"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/pkg/errors"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/pkg/logger"
)

const (
	publicHost      = "https://storage.googleapis.com/"
	uploadURLExpiry = 15 * time.Minute
)

var allowedContentTypes = map[usecase.MediaKind]map[string]string{
	usecase.MediaImage: {
		"image/jpeg": ".jpg",
		"image/jpg":  ".jpg",
		"image/png":  ".png",
		"image/webp": ".webp",
	},
	usecase.MediaVideo: {
		"video/mp4":       ".mp4",
		"video/quicktime": ".mov",
		"video/webm":      ".webm",
	},
}

type CloudStorageClient struct {
	client     *storage.Client
	bucketName string
}

func NewCloudStorageClient(ctx context.Context, bucketName string, allowedOrigins []string, opts ...option.ClientOption) (*CloudStorageClient, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %v", err)
	}

	storageClient := &CloudStorageClient{
		client:     client,
		bucketName: bucketName,
	}

	if err := storageClient.setBucketCORS(ctx, allowedOrigins); err != nil {
		logger.Warn("Failed to set CORS configuration: %v", err)
	}

	return storageClient, nil
}

// setBucketCORS lets browsers PUT directly to signed URLs.
func (c *CloudStorageClient) setBucketCORS(ctx context.Context, origins []string) error {
	bucket := c.client.Bucket(c.bucketName)

	corsConfig := storage.CORS{
		MaxAge:          time.Hour,
		Methods:         []string{"GET", "PUT", "OPTIONS"},
		Origins:         origins,
		ResponseHeaders: []string{"Content-Type"},
	}

	bucketAttrs, err := bucket.Attrs(ctx)
	if err != nil {
		return fmt.Errorf("failed to get bucket attributes: %v", err)
	}

	if len(bucketAttrs.CORS) == 0 {
		_, err := bucket.Update(ctx, storage.BucketAttrsToUpdate{
			CORS: []storage.CORS{corsConfig},
		})
		if err != nil {
			return fmt.Errorf("failed to update bucket CORS: %v", err)
		}
	}

	return nil
}

// ObjectPath is where an owner's upload of the given kind is stored.
func ObjectPath(ownerID string, kind usecase.MediaKind, ext string, now time.Time) string {
	return fmt.Sprintf("animals/%s/%s/%s-%s%s", ownerID, kind, now.Format("20060102150405"), uuid.New().String(), ext)
}

func (c *CloudStorageClient) PublicURL(object string) string {
	return publicHost + c.bucketName + "/" + object
}

// ObjectName extracts the object path from a public URL of this bucket.
func (c *CloudStorageClient) ObjectName(fileURL string) (string, error) {
	if !strings.HasPrefix(fileURL, publicHost) {
		return "", fmt.Errorf("invalid GCS URL format")
	}

	parts := strings.SplitN(strings.TrimPrefix(fileURL, publicHost), "/", 2)
	if len(parts) != 2 || parts[0] != c.bucketName || parts[1] == "" {
		return "", fmt.Errorf("invalid GCS URL format or bucket mismatch")
	}
	return parts[1], nil
}

func (c *CloudStorageClient) SignedUploadURL(ctx context.Context, ownerID string, kind usecase.MediaKind, contentType string) (*usecase.UploadTarget, error) {
	ext, ok := allowedContentTypes[kind][contentType]
	if !ok {
		return nil, errors.BadRequest(fmt.Sprintf("Content type %s is not allowed for %s", contentType, kind), nil)
	}

	now := time.Now()
	object := ObjectPath(ownerID, kind, ext, now)
	expires := now.Add(uploadURLExpiry)

	url, err := c.client.Bucket(c.bucketName).SignedURL(object, &storage.SignedURLOptions{
		Scheme:      storage.SigningSchemeV4,
		Method:      http.MethodPut,
		ContentType: contentType,
		Expires:     expires,
	})
	if err != nil {
		return nil, errors.Internal("Failed to generate upload URL", err)
	}

	return &usecase.UploadTarget{
		UploadURL: url,
		PublicURL: c.PublicURL(object),
		Object:    object,
		ExpiresAt: expires,
	}, nil
}

func (c *CloudStorageClient) Exists(ctx context.Context, fileURL string) (bool, error) {
	object, err := c.ObjectName(fileURL)
	if err != nil {
		return false, nil
	}

	_, err = c.client.Bucket(c.bucketName).Object(object).Attrs(ctx)
	if stderrors.Is(err, storage.ErrObjectNotExist) {
		return false, nil
	}
	if err != nil {
		return false, errors.Unavailable("Failed to check media", err)
	}
	return true, nil
}

func (c *CloudStorageClient) Delete(ctx context.Context, fileURL string) error {
	object, err := c.ObjectName(fileURL)
	if err != nil {
		return errors.BadRequest(err.Error(), err)
	}

	err = c.client.Bucket(c.bucketName).Object(object).Delete(ctx)
	if err != nil && !stderrors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete file: %v", err)
	}
	return nil
}

func (c *CloudStorageClient) Close() error {
	return c.client.Close()
}
