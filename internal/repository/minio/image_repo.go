package minio

import (
	"bytes"
	"context"

	"github.com/DRSN-tech/catalog-backend/internal/cfg"
	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
)

// ключи объектов уникальны (uuid), поэтому изображения кэшируются без ревалидации
const imageCacheControl = "public, max-age=31536000, immutable"

// ImageRepo хранит изображения товаров в бакете MinIO.
type ImageRepo struct {
	client *minio.Client
	cfg    *cfg.MinIOCfg
}

func NewImageRepo(client *minio.Client, cfg *cfg.MinIOCfg) *ImageRepo {
	return &ImageRepo{client: client, cfg: cfg}
}

// Upload сохраняет изображение и возвращает ключ объекта.
func (r *ImageRepo) Upload(ctx context.Context, image *domain.Image) (string, error) {
	info, err := r.client.PutObject(ctx, r.bucket(image), image.ObjectKey, bytes.NewReader(image.Bytes), image.Size,
		minio.PutObjectOptions{
			ContentType:        image.MimeType,
			CacheControl:       imageCacheControl,
			ContentDisposition: "inline",
			UserMetadata:       map[string]string{"image-id": image.ID},
		})
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return info.Key, nil
}

// Delete удаляет объект. Отсутствующий объект ошибкой не считается.
func (r *ImageRepo) Delete(ctx context.Context, key string) error {
	if err := r.client.RemoveObject(ctx, r.cfg.BucketName, key, minio.RemoveObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil
		}
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (r *ImageRepo) bucket(image *domain.Image) string {
	if image.Bucket != "" {
		return image.Bucket
	}
	return r.cfg.BucketName
}
