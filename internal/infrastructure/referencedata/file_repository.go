// Package referencedata serves the governorate/administration/school lookup
// lists from static JSON files on disk.
package referencedata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"unicode"

	"github.com/sngm3741/teacher-registration/api/internal/public/domain"
)

const (
	governoratesFile    = "governorates.json"
	administrationsFile = "administrations.json"
	schoolsFile         = "schools.json"
)

// FileRepository implements application.ReferenceRepository over a directory tree:
//
//	<root>/governorates.json
//	<root>/<governorate>/administrations.json
//	<root>/<governorate>/<administration>/schools.json
//
// 各呼び出しで毎回ファイルを読み直す (キャッシュしない)。
type FileRepository struct {
	root string
}

// NewFileRepository はデータディレクトリを束縛したリポジトリを生成する。
func NewFileRepository(root string) (*FileRepository, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve reference data root: %w", err)
	}
	return &FileRepository{root: abs}, nil
}

func (r *FileRepository) Governorates(ctx context.Context) ([]string, error) {
	return r.readList(ctx, governoratesFile)
}

func (r *FileRepository) Administrations(ctx context.Context, governorate string) ([]string, error) {
	if err := validateKey(governorate); err != nil {
		return nil, err
	}
	return r.readList(ctx, governorate, administrationsFile)
}

func (r *FileRepository) Schools(ctx context.Context, governorate, administration string) ([]string, error) {
	if err := validateKey(governorate); err != nil {
		return nil, err
	}
	if err := validateKey(administration); err != nil {
		return nil, err
	}
	return r.readList(ctx, governorate, administration, schoolsFile)
}

func (r *FileRepository) readList(ctx context.Context, segments ...string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := r.resolve(segments...)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
			return nil, domain.ErrReferenceNotFound
		}
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}

	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if items == nil {
		items = []string{}
	}
	return items, nil
}

// resolve joins the segments under root and rejects anything that escapes it.
func (r *FileRepository) resolve(segments ...string) (string, error) {
	path := filepath.Join(append([]string{r.root}, segments...)...)
	rel, err := filepath.Rel(r.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", domain.ErrInvalidReferenceKey
	}
	return path, nil
}

// validateKey は利用者入力をパスではなく不透明なキーとして扱うための検査。
func validateKey(key string) error {
	if key == "" || key == "." || key == ".." {
		return domain.ErrInvalidReferenceKey
	}
	for _, r := range key {
		if r == '/' || r == '\\' || r == 0 || unicode.IsControl(r) {
			return domain.ErrInvalidReferenceKey
		}
	}
	return nil
}
