package referencedata

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/sngm3741/teacher-registration/api/internal/public/domain"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func newFixture(t *testing.T) *FileRepository {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "governorates.json"), `["اسوان","قنا"]`)
	writeFile(t, filepath.Join(root, "اسوان", "administrations.json"), `["ادفو","كوم امبو"]`)
	writeFile(t, filepath.Join(root, "اسوان", "ادفو", "schools.json"), `["مدرسة ادفو الثانوية","مدرسة الرديسية"]`)
	writeFile(t, filepath.Join(root, "قنا", "administrations.json"), `not json`)

	repo, err := NewFileRepository(root)
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	return repo
}

func TestFileRepositoryReturnsLists(t *testing.T) {
	repo := newFixture(t)
	ctx := context.Background()

	govs, err := repo.Governorates(ctx)
	if err != nil || !reflect.DeepEqual(govs, []string{"اسوان", "قنا"}) {
		t.Fatalf("governorates = %v, %v", govs, err)
	}
	admins, err := repo.Administrations(ctx, "اسوان")
	if err != nil || !reflect.DeepEqual(admins, []string{"ادفو", "كوم امبو"}) {
		t.Fatalf("administrations = %v, %v", admins, err)
	}
	schools, err := repo.Schools(ctx, "اسوان", "ادفو")
	if err != nil || !reflect.DeepEqual(schools, []string{"مدرسة ادفو الثانوية", "مدرسة الرديسية"}) {
		t.Fatalf("schools = %v, %v", schools, err)
	}
}

func TestFileRepositoryNotFound(t *testing.T) {
	repo := newFixture(t)
	ctx := context.Background()

	if _, err := repo.Administrations(ctx, "الاقصر"); !errors.Is(err, domain.ErrReferenceNotFound) {
		t.Fatalf("unknown governorate: %v", err)
	}
	if _, err := repo.Schools(ctx, "اسوان", "دراو"); !errors.Is(err, domain.ErrReferenceNotFound) {
		t.Fatalf("unknown administration: %v", err)
	}
	if _, err := repo.Administrations(ctx, "governorates.json"); !errors.Is(err, domain.ErrReferenceNotFound) {
		t.Fatalf("file used as directory: %v", err)
	}

	empty, err := NewFileRepository(t.TempDir())
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	if _, err := empty.Governorates(ctx); !errors.Is(err, domain.ErrReferenceNotFound) {
		t.Fatalf("missing governorates file: %v", err)
	}
}

func TestFileRepositoryRejectsUnsafeKeys(t *testing.T) {
	repo := newFixture(t)
	ctx := context.Background()

	for _, key := range []string{"", ".", "..", "../secret", "a/b", `a\b`, "a\x00b", "a\nb"} {
		if _, err := repo.Administrations(ctx, key); !errors.Is(err, domain.ErrInvalidReferenceKey) {
			t.Errorf("Administrations(%q) = %v, want ErrInvalidReferenceKey", key, err)
		}
		if _, err := repo.Schools(ctx, "اسوان", key); !errors.Is(err, domain.ErrInvalidReferenceKey) {
			t.Errorf("Schools(_, %q) = %v, want ErrInvalidReferenceKey", key, err)
		}
	}
}

func TestFileRepositoryMalformedFile(t *testing.T) {
	repo := newFixture(t)
	_, err := repo.Administrations(context.Background(), "قنا")
	if err == nil {
		t.Fatal("expected decode error")
	}
	if errors.Is(err, domain.ErrReferenceNotFound) || errors.Is(err, domain.ErrInvalidReferenceKey) {
		t.Fatalf("malformed file should be an I/O failure, got %v", err)
	}
}

func TestFileRepositoryHonoursCancelledContext(t *testing.T) {
	repo := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := repo.Governorates(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
