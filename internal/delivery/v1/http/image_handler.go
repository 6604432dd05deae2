package http

import (
	"net/http"

	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
)

type ImageHandler struct {
	imageUsecase usecase.ImageUC
	maxImageSize int64
	logger       logger.Logger
}

func NewImageHandler(imageUsecase usecase.ImageUC, maxImageSize int64, logger logger.Logger) *ImageHandler {
	return &ImageHandler{imageUsecase: imageUsecase, maxImageSize: maxImageSize, logger: logger}
}

// uploadImage
//
//	@Summary		Загрузка изображения товара
//	@Description	Сохраняет изображение в объектном хранилище и возвращает ссылку для поля image
//	@Tags			images
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			image		formData	file	true	"Изображение (jpeg, png, webp)"
//	@Param			password	formData	string	true	"Пароль администратора"
//	@Success		201			{object}	UploadImageResponse
//	@Failure		400			{object}	ErrorResponse
//	@Failure		413			{object}	ErrorResponse
//	@Failure		415			{object}	ErrorResponse
//	@Failure		501			{object}	ErrorResponse	"Хранилище изображений не настроено"
//	@Router			/images [post]
func (i *ImageHandler) uploadImage(w http.ResponseWriter, r *http.Request) {
	const maxMemory = 32 << 20

	if i.imageUsecase == nil {
		WriteError(w, e.ErrFeatureDisabled)
		return
	}

	// запас на остальные поля формы
	r.Body = http.MaxBytesReader(w, r.Body, i.maxImageSize+(1<<20))

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		i.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), r.Header.Get("Content-Type"))
		WriteError(w, err)
		return
	}

	file, err := parseImage(r.MultipartForm.File["image"], i.maxImageSize)
	if err != nil {
		i.logger.Warnf("%d: %v", http.StatusBadRequest, err)
		WriteError(w, err)
		return
	}

	password := r.FormValue("password")
	if password == "" {
		password = r.Header.Get(adminPasswordHeader)
	}

	res, err := i.imageUsecase.UploadImage(r.Context(), usecase.NewUploadImageReq(password, file.name, file.data, file.mimeType))
	if err != nil {
		i.logger.Warnf("image upload failed: %v", err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, UploadImageResponse{Image: res.URL, Key: res.Key})
}
