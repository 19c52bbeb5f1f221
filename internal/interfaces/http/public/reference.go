package public

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sngm3741/teacher-registration/api/internal/interfaces/http/common"
	"github.com/sngm3741/teacher-registration/api/internal/public/domain"
)

const (
	msgGovernoratesNotFound    = "Governorates data not found"
	msgAdministrationsNotFound = "Administrations data not found for this governorate"
	msgSchoolsNotFound         = "Schools data not found for this administration"
)

func (h *Handler) placesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		common.WriteJSON(h.logger, w, http.StatusOK, h.references.Places())
	}
}

func (h *Handler) governoratesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		items, err := h.references.Governorates(ctx)
		h.writeReference(w, items, err, msgGovernoratesNotFound)
	}
}

func (h *Handler) administrationsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		governorate := pathParam(r, "governorate")
		items, err := h.references.Administrations(ctx, governorate)
		h.writeReference(w, items, err, msgAdministrationsNotFound)
	}
}

func (h *Handler) schoolsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		governorate := pathParam(r, "governorate")
		administration := pathParam(r, "administration")
		items, err := h.references.Schools(ctx, governorate, administration)
		h.writeReference(w, items, err, msgSchoolsNotFound)
	}
}

// writeReference は参照データの取得結果をレスポンスへ変換する。
// 不正なキーも「見つからない」と同じ 404 にして、ディレクトリ構造を推測させない。
func (h *Handler) writeReference(w http.ResponseWriter, items []string, err error, notFound string) {
	switch {
	case err == nil:
		if items == nil {
			items = []string{}
		}
		common.WriteJSON(h.logger, w, http.StatusOK, items)
	case errors.Is(err, domain.ErrReferenceNotFound), errors.Is(err, domain.ErrInvalidReferenceKey):
		common.WriteMessage(h.logger, w, http.StatusNotFound, notFound)
	default:
		h.logger.Printf("参照データの読み込みに失敗: %v", err)
		common.WriteMessage(h.logger, w, http.StatusInternalServerError, common.MessageInternalError)
	}
}

// pathParam returns the trimmed route parameter.
// chi は RawPath があるときだけエスケープ済みのセグメントを返すので、その場合に限り一度だけデコードする。
func pathParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if r.URL.RawPath != "" {
		if decoded, err := url.PathUnescape(raw); err == nil {
			raw = decoded
		}
	}
	return strings.TrimSpace(raw)
}
