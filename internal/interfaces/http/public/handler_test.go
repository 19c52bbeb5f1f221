package public

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/sngm3741/teacher-registration/api/internal/infrastructure/uploads"
	publicapp "github.com/sngm3741/teacher-registration/api/internal/public/application"
	"github.com/sngm3741/teacher-registration/api/internal/public/domain"
)

type fakeReferences struct {
	governorates    []string
	administrations map[string][]string
	schools         map[string][]string
	err             error
	gotKeys         []string
}

func (f *fakeReferences) Governorates(context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.governorates == nil {
		return nil, domain.ErrReferenceNotFound
	}
	return f.governorates, nil
}

func (f *fakeReferences) Administrations(_ context.Context, gov string) ([]string, error) {
	f.gotKeys = append(f.gotKeys, gov)
	if strings.ContainsAny(gov, `/\`) {
		return nil, domain.ErrInvalidReferenceKey
	}
	items, ok := f.administrations[gov]
	if !ok {
		return nil, domain.ErrReferenceNotFound
	}
	return items, nil
}

func (f *fakeReferences) Schools(_ context.Context, gov, admin string) ([]string, error) {
	items, ok := f.schools[gov+"|"+admin]
	if !ok {
		return nil, domain.ErrReferenceNotFound
	}
	return items, nil
}

type memoryRepo struct {
	mu    sync.Mutex
	saved []*domain.Registration
	err   error
}

func (m *memoryRepo) Create(_ context.Context, reg *domain.Registration) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	reg.ID = fmt.Sprintf("id-%d", len(m.saved)+1)
	m.saved = append(m.saved, reg)
	return nil
}

type testFile struct {
	field       string
	name        string
	contentType string
	data        []byte
}

type testEnv struct {
	router    http.Handler
	repo      *memoryRepo
	uploadDir string
	logs      *bytes.Buffer
}

func newTestEnv(t *testing.T, refs *fakeReferences, maxBody int64) *testEnv {
	t.Helper()
	repo := &memoryRepo{}
	dir := t.TempDir()
	store := uploads.NewLocalStore(dir, 10<<20)

	if refs == nil {
		refs = &fakeReferences{}
	}
	logs := &bytes.Buffer{}

	h := NewHandler(Config{
		Logger:         log.New(logs, "", 0),
		References:     publicapp.NewReferenceQueryService(refs),
		Registrations:  publicapp.NewRegistrationCommandService(repo, store),
		MaxBodyBytes:   maxBody,
		MaxUploadBytes: 10 << 20,
	})
	router := chi.NewRouter()
	router.Route("/api", h.Register)
	return &testEnv{router: router, repo: repo, uploadDir: dir, logs: logs}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func validFields() map[string]string {
	return map[string]string{
		"name":           "  Ali  ",
		"phoneNumber":    "0100000000",
		"qualification":  "دبلوم",
		"place":          "اسوان",
		"governorate":    "اسوان",
		"administration": "اسوان",
		"comments":       "",
	}
}

func pngData(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 8, 8))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func multipartRequest(t *testing.T, fields map[string]string, files ...testFile) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for key, value := range fields {
		if err := mw.WriteField(key, value); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	for _, f := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.field, f.name))
		header.Set("Content-Type", f.contentType)
		part, err := mw.CreatePart(header)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write(f.data); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/submit", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v (status %d)", err, rec.Code)
	}
	return payload.Message
}

func uploadedFiles(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read upload dir: %v", err)
	}
	return len(entries)
}

func TestPlacesEndpoint(t *testing.T) {
	env := newTestEnv(t, nil, 10<<20)
	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/places", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var places []string
	if err := json.NewDecoder(rec.Body).Decode(&places); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(places) != len(domain.Places()) || places[len(places)-1] != "اسوان" {
		t.Fatalf("unexpected places %v", places)
	}
}

func TestReferenceEndpoints(t *testing.T) {
	refs := &fakeReferences{
		governorates:    []string{"اسوان", "قنا"},
		administrations: map[string][]string{"اسوان": {"ادفو", "كوم امبو"}, "a%41": {"literal"}},
		schools:         map[string][]string{"اسوان|ادفو": {"مدرسة ادفو"}},
	}
	env := newTestEnv(t, refs, 10<<20)

	cases := []struct {
		path    string
		status  int
		body    []string
		message string
	}{
		{path: "/api/governorates", status: http.StatusOK, body: []string{"اسوان", "قنا"}},
		{path: "/api/administrations/" + url.PathEscape("اسوان"), status: http.StatusOK, body: []string{"ادفو", "كوم امبو"}},
		{path: "/api/administrations/" + url.PathEscape("الاقصر"), status: http.StatusNotFound, message: msgAdministrationsNotFound},
		{path: "/api/administrations/a%2541", status: http.StatusOK, body: []string{"literal"}},
		{path: "/api/administrations/..%2Fsecret", status: http.StatusNotFound, message: msgAdministrationsNotFound},
		{path: "/api/schools/" + url.PathEscape("اسوان") + "/" + url.PathEscape("ادفو"), status: http.StatusOK, body: []string{"مدرسة ادفو"}},
		{path: "/api/schools/" + url.PathEscape("اسوان") + "/" + url.PathEscape("دراو"), status: http.StatusNotFound, message: msgSchoolsNotFound},
	}
	for _, tc := range cases {
		rec := env.do(httptest.NewRequest(http.MethodGet, tc.path, nil))
		if rec.Code != tc.status {
			t.Fatalf("%s: expected %d, got %d", tc.path, tc.status, rec.Code)
		}
		if tc.message != "" {
			if got := decodeMessage(t, rec); got != tc.message {
				t.Fatalf("%s: unexpected message %q", tc.path, got)
			}
			continue
		}
		var items []string
		if err := json.NewDecoder(rec.Body).Decode(&items); err != nil {
			t.Fatalf("%s: decode: %v", tc.path, err)
		}
		if strings.Join(items, ",") != strings.Join(tc.body, ",") {
			t.Fatalf("%s: got %v want %v", tc.path, items, tc.body)
		}
	}

	keys := strings.Join(refs.gotKeys, "|")
	if !strings.Contains(keys, "|a%41|") || !strings.HasSuffix(keys, "|../secret") {
		t.Fatalf("expected keys to be decoded exactly once, got %v", refs.gotKeys)
	}
}

func TestFormatSizeLimit(t *testing.T) {
	cases := map[int64]string{
		10 << 20:      "10MB",
		1 << 20:       "1MB",
		(1 << 20) + 1: "2MB",
		512 << 10:     "512KB",
		1000:          "1KB",
	}
	for limit, want := range cases {
		if got := formatSizeLimit(limit); got != want {
			t.Errorf("formatSizeLimit(%d) = %q, want %q", limit, got, want)
		}
	}
}

func TestReferenceEndpointErrors(t *testing.T) {
	env := newTestEnv(t, &fakeReferences{}, 10<<20)
	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/governorates", nil))
	if rec.Code != http.StatusNotFound || decodeMessage(t, rec) != msgGovernoratesNotFound {
		t.Fatalf("expected governorates 404, got %d", rec.Code)
	}

	env = newTestEnv(t, &fakeReferences{err: errors.New("disk on fire")}, 10<<20)
	rec = env.do(httptest.NewRequest(http.MethodGet, "/api/governorates", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if msg := decodeMessage(t, rec); strings.Contains(msg, "disk") {
		t.Fatalf("internal error leaked to client: %q", msg)
	}
}

func TestSubmitStoresRegistration(t *testing.T) {
	env := newTestEnv(t, nil, 10<<20)
	req := multipartRequest(t, validFields(), testFile{field: photoField, name: "id.png", contentType: "image/png", data: pngData(t)})

	rec := env.do(req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if msg := decodeMessage(t, rec); msg != msgSubmitted {
		t.Fatalf("unexpected message %q", msg)
	}
	if len(env.repo.saved) != 1 {
		t.Fatalf("expected one registration, got %d", len(env.repo.saved))
	}
	saved := env.repo.saved[0]
	if saved.Name != "Ali" || saved.Qualification != "دبلوم" || saved.IDPhotoPath == "" {
		t.Fatalf("unexpected registration %+v", saved)
	}
	if uploadedFiles(t, env.uploadDir) != 1 {
		t.Fatal("expected the photo to be stored")
	}
}

func TestSubmitRejections(t *testing.T) {
	photo := pngData(t)
	missingPlace := validFields()
	delete(missingPlace, "place")
	badQualification := validFields()
	badQualification["qualification"] = "دكتوراه"

	cases := []struct {
		name    string
		fields  map[string]string
		files   []testFile
		status  int
		message string
	}{
		{
			name:    "missing required field",
			fields:  missingPlace,
			files:   []testFile{{field: photoField, name: "a.png", contentType: "image/png", data: photo}},
			status:  http.StatusBadRequest,
			message: domain.ErrMissingFields.Message,
		},
		{
			name:    "invalid qualification",
			fields:  badQualification,
			files:   []testFile{{field: photoField, name: "a.png", contentType: "image/png", data: photo}},
			status:  http.StatusBadRequest,
			message: domain.ErrInvalidQualification.Message,
		},
		{
			name:    "no photo",
			fields:  validFields(),
			status:  http.StatusBadRequest,
			message: domain.ErrPhotoRequired.Message,
		},
		{
			name:    "not an image",
			fields:  validFields(),
			files:   []testFile{{field: photoField, name: "cv.pdf", contentType: "application/pdf", data: []byte("%PDF-1.4")}},
			status:  http.StatusUnsupportedMediaType,
			message: msgOnlyImages,
		},
		{
			name:   "two photos",
			fields: validFields(),
			files: []testFile{
				{field: photoField, name: "a.png", contentType: "image/png", data: photo},
				{field: photoField, name: "b.png", contentType: "image/png", data: photo},
			},
			status:  http.StatusBadRequest,
			message: msgTooManyPhotos,
		},
		{
			name:    "unexpected file field",
			fields:  validFields(),
			files:   []testFile{{field: "avatar", name: "a.png", contentType: "image/png", data: photo}},
			status:  http.StatusBadRequest,
			message: msgUnexpectedField,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t, nil, 10<<20)
			rec := env.do(multipartRequest(t, tc.fields, tc.files...))
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, rec.Code, rec.Body.String())
			}
			if msg := decodeMessage(t, rec); msg != tc.message {
				t.Fatalf("unexpected message %q", msg)
			}
			if len(env.repo.saved) != 0 {
				t.Fatal("no registration should be stored")
			}
			if n := uploadedFiles(t, env.uploadDir); n != 0 {
				t.Fatalf("expected no stored photo, found %d", n)
			}
		})
	}
}

func TestSubmitLogsSniffedPhotoType(t *testing.T) {
	env := newTestEnv(t, nil, 10<<20)
	rec := env.do(multipartRequest(t, validFields(), testFile{field: photoField, name: "id.png", contentType: "image/png", data: []byte("%PDF-1.4 scanned")}))
	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %d", rec.Code)
	}
	if logs := env.logs.String(); !strings.Contains(logs, "application/pdf") {
		t.Fatalf("expected detected type in logs, got %q", logs)
	}
}

func TestSubmitRejectsOversizedBody(t *testing.T) {
	env := newTestEnv(t, nil, 1024)
	big := bytes.Repeat([]byte{0x89}, 2<<20)
	rec := env.do(multipartRequest(t, validFields(), testFile{field: photoField, name: "big.png", contentType: "image/png", data: big}))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rec.Code)
	}
	if msg := decodeMessage(t, rec); msg != "File too large. Max size is 10MB." {
		t.Fatalf("unexpected message %q", msg)
	}
	if len(env.repo.saved) != 0 {
		t.Fatal("no registration should be stored")
	}
}

func TestSubmitURLEncodedBodyRequiresPhoto(t *testing.T) {
	env := newTestEnv(t, nil, 10<<20)
	form := url.Values{}
	for key, value := range validFields() {
		form.Set(key, value)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/submit", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := env.do(req)
	if rec.Code != http.StatusBadRequest || decodeMessage(t, rec) != domain.ErrPhotoRequired.Message {
		t.Fatalf("expected photo required, got %d", rec.Code)
	}
}

func TestSubmitRepositoryFailureIsHidden(t *testing.T) {
	env := newTestEnv(t, nil, 10<<20)
	env.repo.err = errors.New("mongo: connection refused")

	rec := env.do(multipartRequest(t, validFields(), testFile{field: photoField, name: "id.png", contentType: "image/png", data: pngData(t)}))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if msg := decodeMessage(t, rec); msg != msgSubmitFailed {
		t.Fatalf("unexpected message %q", msg)
	}
	// 写真は残る (ロールバックしない)。
	if uploadedFiles(t, env.uploadDir) != 1 {
		t.Fatal("expected the stored photo to remain after a failed write")
	}
}
