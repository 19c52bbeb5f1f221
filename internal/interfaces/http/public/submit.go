package public

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/sngm3741/teacher-registration/api/internal/interfaces/http/common"
	publicapp "github.com/sngm3741/teacher-registration/api/internal/public/application"
	"github.com/sngm3741/teacher-registration/api/internal/public/domain"
)

const photoField = "idPhoto"

const (
	msgSubmitted        = "Form submitted successfully!"
	msgSubmitFailed     = "Server Error during submission."
	msgOnlyImages       = "Only image files are allowed!"
	msgInvalidForm      = "Invalid form data."
	msgUnexpectedField  = "Unexpected field"
	msgTooManyPhotos    = "Only one ID photo can be uploaded."
	msgFileTooLargeTmpl = "File too large. Max size is %s."
)

var (
	errUnexpectedFileField = errors.New("unexpected file field")
	errTooManyPhotos       = errors.New("more than one photo uploaded")
)

func (h *Handler) submitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.maxBodyBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes+common.MultipartOverhead)
		}

		cmd, cleanup, err := readSubmission(r)
		defer cleanup()
		if err != nil {
			h.writeFormError(w, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		registration, err := h.registrations.Submit(ctx, cmd)
		if err != nil {
			h.writeSubmitError(w, err)
			return
		}

		if registration != nil {
			h.logger.Printf("教員登録を保存しました id=%s photo=%s", registration.ID, registration.IDPhotoPath)
		}
		common.WriteMessage(h.logger, w, http.StatusCreated, msgSubmitted)
	}
}

// readSubmission parses the form body into a command. The returned cleanup is always non-nil.
func readSubmission(r *http.Request) (publicapp.SubmitRegistrationCommand, func(), error) {
	var cmd publicapp.SubmitRegistrationCommand
	cleanup := func() {}

	if !isMultipart(r) {
		if err := r.ParseForm(); err != nil {
			return cmd, cleanup, err
		}
		fillFields(&cmd, r)
		return cmd, cleanup, nil
	}

	if err := r.ParseMultipartForm(common.MultipartMemory); err != nil {
		return cmd, cleanup, err
	}
	form := r.MultipartForm
	cleanup = func() { _ = form.RemoveAll() }

	for field, headers := range form.File {
		if field != photoField {
			return cmd, cleanup, errUnexpectedFileField
		}
		if len(headers) > 1 {
			return cmd, cleanup, errTooManyPhotos
		}
	}

	fillFields(&cmd, r)

	if headers := form.File[photoField]; len(headers) == 1 {
		photo, file, err := openPhoto(headers[0])
		if err != nil {
			return cmd, cleanup, err
		}
		cmd.Photo = photo
		removeAll := cleanup
		cleanup = func() {
			_ = file.Close()
			removeAll()
		}
	}
	return cmd, cleanup, nil
}

func fillFields(cmd *publicapp.SubmitRegistrationCommand, r *http.Request) {
	cmd.Name = r.PostFormValue("name")
	cmd.PhoneNumber = r.PostFormValue("phoneNumber")
	cmd.Qualification = r.PostFormValue("qualification")
	cmd.Place = r.PostFormValue("place")
	cmd.Governorate = r.PostFormValue("governorate")
	cmd.Administration = r.PostFormValue("administration")
	cmd.School = r.PostFormValue("school")
	cmd.Comments = r.PostFormValue("comments")
}

func openPhoto(header *multipart.FileHeader) (*publicapp.PhotoUpload, io.Closer, error) {
	file, err := header.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("open uploaded photo: %w", err)
	}
	return &publicapp.PhotoUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     file,
	}, file, nil
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

func (h *Handler) fileTooLargeMessage() string {
	limit := h.maxUploadBytes
	if limit <= 0 {
		limit = h.maxBodyBytes
	}
	return fmt.Sprintf(msgFileTooLargeTmpl, formatSizeLimit(limit))
}

// formatSizeLimit は上限を切り上げて MB で表す。1MB 未満は KB で表す。
func formatSizeLimit(limit int64) string {
	const kb, mb = 1 << 10, 1 << 20
	if limit >= mb {
		return fmt.Sprintf("%dMB", (limit+mb-1)/mb)
	}
	return fmt.Sprintf("%dKB", (limit+kb-1)/kb)
}

// writeFormError maps body parsing failures.
func (h *Handler) writeFormError(w http.ResponseWriter, err error) {
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytesErr), errors.Is(err, multipart.ErrMessageTooLarge):
		common.WriteMessage(h.logger, w, http.StatusRequestEntityTooLarge, h.fileTooLargeMessage())
	case errors.Is(err, errUnexpectedFileField):
		common.WriteMessage(h.logger, w, http.StatusBadRequest, msgUnexpectedField)
	case errors.Is(err, errTooManyPhotos):
		common.WriteMessage(h.logger, w, http.StatusBadRequest, msgTooManyPhotos)
	default:
		h.logger.Printf("フォームの解析に失敗: %v", err)
		common.WriteMessage(h.logger, w, http.StatusBadRequest, msgInvalidForm)
	}
}

// writeSubmitError maps Submit failures onto the HTTP error taxonomy.
func (h *Handler) writeSubmitError(w http.ResponseWriter, err error) {
	if validationErr, ok := domain.IsValidationError(err); ok {
		common.WriteMessage(h.logger, w, http.StatusBadRequest, validationErr.Message)
		return
	}
	switch {
	case errors.Is(err, domain.ErrPhotoTooLarge):
		common.WriteMessage(h.logger, w, http.StatusRequestEntityTooLarge, h.fileTooLargeMessage())
	case errors.Is(err, domain.ErrUnsupportedPhotoType):
		h.logger.Printf("画像以外のアップロードを拒否: %v", err)
		common.WriteMessage(h.logger, w, http.StatusUnsupportedMediaType, msgOnlyImages)
	default:
		h.logger.Printf("教員登録の保存に失敗: %v", err)
		common.WriteMessage(h.logger, w, http.StatusInternalServerError, msgSubmitFailed)
	}
}
