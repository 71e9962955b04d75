package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MediaStorage хранит загруженные файлы под корнем media: аватары
// профилей и картинки офферов. Файлы раскладываются по каталогам
// владельцев и отдаются наружу через статический маршрут /media.
type MediaStorage struct {
	rootPath       string
	maxUploadBytes int64
}

// NewMediaStorage создаёт хранилище и каталог под него.
func NewMediaStorage(rootPath string, maxUploadMB int64) (*MediaStorage, error) {
	if err := os.MkdirAll(rootPath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: не удалось создать каталог %s: %w", rootPath, err)
	}

	return &MediaStorage{
		rootPath:       rootPath,
		maxUploadBytes: maxUploadMB * 1024 * 1024,
	}, nil
}

// Save записывает файл во временное имя и атомарно переименовывает.
// Возвращает путь относительно корня media и число записанных байт.
func (s *MediaStorage) Save(ctx context.Context, ownerID uuid.UUID, originalName string, r io.Reader) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	fileName := fmt.Sprintf("%s_%d%s", ownerID.String(), time.Now().UnixNano(), filepath.Ext(sanitizeFilename(originalName)))

	ownerDir := filepath.Join(s.rootPath, ownerID.String())
	if err := os.MkdirAll(ownerDir, 0o755); err != nil {
		return "", 0, fmt.Errorf("storage: не удалось создать каталог владельца: %w", err)
	}

	targetPath := filepath.Join(ownerDir, fileName)
	tempPath := targetPath + ".tmp"

	f, err := os.Create(tempPath)
	if err != nil {
		return "", 0, fmt.Errorf("storage: не удалось создать файл: %w", err)
	}
	defer f.Close()

	limited := io.LimitedReader{R: r, N: s.maxUploadBytes + 1}
	written, err := io.Copy(f, &limited)
	if err != nil {
		_ = os.Remove(tempPath)
		return "", 0, fmt.Errorf("storage: ошибка записи файла: %w", err)
	}
	if written > s.maxUploadBytes {
		_ = os.Remove(tempPath)
		return "", 0, fmt.Errorf("storage: размер файла превышает лимит %d байт", s.maxUploadBytes)
	}

	if err := f.Close(); err != nil {
		return "", 0, fmt.Errorf("storage: ошибка закрытия файла: %w", err)
	}
	if err := os.Rename(tempPath, targetPath); err != nil {
		return "", 0, fmt.Errorf("storage: не удалось переименовать файл: %w", err)
	}

	return filepath.Join(ownerID.String(), fileName), written, nil
}

// sanitizeFilename оставляет от имени только безопасную базовую часть.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "..", "")
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	if name == "" {
		name = "upload"
	}
	return name
}
