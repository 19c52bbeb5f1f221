package admin

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	admindomain "github.com/sngm3741/teacher-registration/api/internal/admin/domain"
	"github.com/sngm3741/teacher-registration/api/internal/interfaces/http/common"
)

const (
	exportFilename = "teachers_data.csv"

	msgFetchFailed  = "Error fetching forms."
	msgNoData       = "No data to export."
	msgExportFailed = "Error exporting data."
)

func (h *Handler) formListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		registrations, err := h.registrations.List(ctx)
		if err != nil {
			h.logger.Printf("登録一覧の取得に失敗: %v", err)
			common.WriteMessage(h.logger, w, http.StatusInternalServerError, msgFetchFailed)
			return
		}

		items := make([]registrationResponse, 0, len(registrations))
		for _, reg := range registrations {
			items = append(items, registrationDomainToResponse(reg))
		}
		h.audit(r, "list", len(items))
		common.WriteJSON(h.logger, w, http.StatusOK, items)
	}
}

func (h *Handler) exportHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		data, err := h.registrations.Export(ctx)
		if err != nil {
			if errors.Is(err, admindomain.ErrNoRegistrations) {
				common.WriteMessage(h.logger, w, http.StatusNotFound, msgNoData)
				return
			}
			h.logger.Printf("CSV エクスポートに失敗: %v", err)
			common.WriteMessage(h.logger, w, http.StatusInternalServerError, msgExportFailed)
			return
		}

		h.audit(r, "export", -1)
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+exportFilename+`"`)
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(data); err != nil {
			h.logger.Printf("CSV レスポンスの書き込みに失敗: %v", err)
		}
	}
}

// audit は管理操作を誰が行ったかをログへ残す。
func (h *Handler) audit(r *http.Request, action string, count int) {
	principal, ok := common.AdminFromContext(r.Context())
	if !ok {
		principal = common.AdminPrincipal{Subject: "unknown", Method: "none"}
	}
	if count >= 0 {
		h.logger.Printf("admin %s by %s (%s): %d records", action, principal.Subject, principal.Method, count)
		return
	}
	h.logger.Printf("admin %s by %s (%s)", action, principal.Subject, principal.Method)
}
