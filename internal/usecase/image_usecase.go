package usecase

import (
	"context"

	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
)

// ImageUseCase загружает изображения товаров от имени администратора.
type ImageUseCase struct {
	imagesInfra ImagesInfra
	verifier    PasswordVerifier
	logger      logger.Logger
}

func NewImageUC(imagesInfra ImagesInfra, verifier PasswordVerifier, logger logger.Logger) *ImageUseCase {
	return &ImageUseCase{
		imagesInfra: imagesInfra,
		verifier:    verifier,
		logger:      logger,
	}
}

// UploadImage проверяет пароль и сохраняет изображение, возвращая его публичный URL.
func (i *ImageUseCase) UploadImage(ctx context.Context, req *UploadImageReq) (*UploadImageRes, error) {
	const op = "ImageUseCase.UploadImage"

	if !i.verifier.Verify(req.Password) {
		return nil, e.Wrap(op, e.ErrUnauthorized)
	}

	if len(req.Data) == 0 {
		return nil, e.Wrap(op, e.ErrNoImages)
	}

	res, err := i.imagesInfra.UploadImage(ctx, req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	i.logger.Infof("image uploaded: %s", res.Key)
	return res, nil
}
