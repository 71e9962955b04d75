package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
)

// Разрешённые типы изображений для загрузки
var allowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Разрешённые расширения файлов
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// openValidatedImage проверяет расширение и магические байты загружаемого
// файла и возвращает reader, перемотанный на начало.
func openValidatedImage(file *multipart.FileHeader) (multipart.File, error) {
	if file.Size == 0 {
		return nil, fmt.Errorf("файл не может быть пустым")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		return nil, fmt.Errorf("неподдерживаемый формат файла %s", ext)
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть файл")
	}

	buffer := make([]byte, 512)
	n, err := src.Read(buffer)
	if err != nil && err != io.EOF {
		_ = src.Close()
		return nil, fmt.Errorf("не удалось прочитать файл")
	}

	kind, err := filetype.Match(buffer[:n])
	if err != nil || kind == filetype.Unknown {
		_ = src.Close()
		return nil, fmt.Errorf("не удалось определить тип файла, разрешены только изображения")
	}
	if !allowedMimeTypes[kind.MIME.Value] {
		_ = src.Close()
		return nil, fmt.Errorf("неподдерживаемый тип файла %s", kind.MIME.Value)
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		_ = src.Close()
		return nil, fmt.Errorf("не удалось перемотать файл")
	}

	return src, nil
}
