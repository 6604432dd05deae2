package usecase

import (
	"context"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
)

// Embedder вычисляет эмбеддинг текста. Ошибка не фатальна для вызывающего кода.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.Embedding, error)
}

// PasswordVerifier сверяет пароль администратора с сохраненным хешем.
type PasswordVerifier interface {
	Verify(plaintext string) bool
}

type EventPublisher interface {
	Publish(ctx context.Context, event *ProductEvent) error
}

type ImagesInfra interface {
	UploadImage(ctx context.Context, req *UploadImageReq) (*UploadImageRes, error)
}
