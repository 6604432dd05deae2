package infrastructure

import (
	"mime"
	"path"
	"strings"

	"github.com/DRSN-tech/catalog-backend/pkg/e"
)

// imageExtensions — типы изображений, которые принимаются для товаров.
var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// ImageObjectKey строит ключ объекта <prefix>/<id>.<ext> по MIME-типу изображения.
// Для остальных типов возвращает e.ErrUnsupportedMediaType.
func ImageObjectKey(prefix, id, contentType string) (string, error) {
	ext, ok := imageExtensions[normalizeMIME(contentType)]
	if !ok {
		return "", e.Wrap(contentType, e.ErrUnsupportedMediaType)
	}

	return path.Join(prefix, id+"."+ext), nil
}

// normalizeMIME отбрасывает параметры ("image/png; q=1") и приводит тип к нижнему регистру.
func normalizeMIME(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}

	return mt
}
