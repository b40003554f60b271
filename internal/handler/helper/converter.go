package helper

import (
	"encoding/base64"
	"fmt"
)

// EncodeImageData кодирует бинарные данные изображения в data-URI для JSON.
// Пустой blob дает пустую строку, отсутствующий MIME-тип трактуется как PNG.
func EncodeImageData(data []byte, mimeType *string) string {
	if len(data) == 0 {
		return ""
	}
	mime := "image/png"
	if mimeType != nil && *mimeType != "" {
		mime = *mimeType
	}
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data))
}
