// Package uploads stores ID photos on the local filesystem.
package uploads

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sngm3741/teacher-registration/api/internal/public/application"
	"github.com/sngm3741/teacher-registration/api/internal/public/domain"
)

const (
	sniffLen        = 3072
	maxBaseNameLen  = 80
	defaultBaseName = "photo"
)

// LocalStore implements application.PhotoStore by writing files under its root directory.
type LocalStore struct {
	root     string
	maxBytes int64
	now      func() time.Time
}

// NewLocalStore は保存先ディレクトリとサイズ上限を束縛したストアを生成する。
// ディレクトリは最初の保存時に作成する。
func NewLocalStore(root string, maxBytes int64) *LocalStore {
	return &LocalStore{root: root, maxBytes: maxBytes, now: time.Now}
}

// Save validates the upload, writes it under a collision-free name and
// returns the stored path using forward slashes.
func (s *LocalStore) Save(ctx context.Context, photo application.PhotoUpload) (string, error) {
	if photo.Content == nil {
		return "", domain.ErrPhotoRequired
	}
	if !isImageType(photo.ContentType) {
		return "", fmt.Errorf("%w: declared %q", domain.ErrUnsupportedPhotoType, photo.ContentType)
	}
	if s.maxBytes > 0 && photo.Size > s.maxBytes {
		return "", domain.ErrPhotoTooLarge
	}

	// 宣言された Content-Type だけでなく先頭バイトでも画像であることを確認する。
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(photo.Content, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	detected := mimetype.Detect(head)
	if !isImageType(detected.String()) {
		return "", fmt.Errorf("%w: declared %q but content is %s", domain.ErrUnsupportedPhotoType, photo.ContentType, detected.String())
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := fmt.Sprintf("%d-%s-%s", s.now().UnixMilli(), uuid.NewString(), sanitizeBaseName(photo.Filename, detected.Extension()))
	path := filepath.Join(s.root, name)

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}

	body := io.MultiReader(bytes.NewReader(head), photo.Content)
	limit := s.maxBytes
	if limit <= 0 {
		limit = 1<<63 - 2
	}
	written, copyErr := io.Copy(file, io.LimitReader(body, limit+1))
	closeErr := file.Close()

	switch {
	case copyErr != nil:
		_ = os.Remove(path)
		return "", fmt.Errorf("write upload file: %w", copyErr)
	case written > limit:
		_ = os.Remove(path)
		return "", domain.ErrPhotoTooLarge
	case closeErr != nil:
		_ = os.Remove(path)
		return "", fmt.Errorf("close upload file: %w", closeErr)
	}

	return filepath.ToSlash(path), nil
}

func isImageType(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/")
}

// sanitizeBaseName keeps the client's file name readable but safe as a single path segment.
func sanitizeBaseName(filename, fallbackExt string) string {
	base := filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	var b strings.Builder
	for _, r := range base {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	cleaned := strings.Trim(b.String(), "._")
	if runes := []rune(cleaned); len(runes) > maxBaseNameLen {
		cleaned = string(runes[len(runes)-maxBaseNameLen:])
	}
	if cleaned == "" {
		return defaultBaseName + fallbackExt
	}
	return cleaned
}
