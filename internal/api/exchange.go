package api

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/brasaerp/brasaerp/internal/exchange"
	"github.com/brasaerp/brasaerp/internal/rbac"
)

// maxImportSize caps an uploaded workbook at 20 MiB.
const maxImportSize = 20 << 20

func (h *Handler) mountExchange(r chi.Router) {
	r.Use(h.requirePerm(rbac.PermExchange))
	r.Get("/export", h.handleExport)
	r.Post("/import", h.handleImport)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := exchange.Write(h.store.Export())
	if err != nil {
		h.logger.Error("export workbook", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	filename := fmt.Sprintf("brasaerp-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write(data)
}

// handleImport replaces the entire state from an uploaded workbook.
// Parsing and validation happen before anything mutates, so a bad
// file leaves the store untouched.
func (h *Handler) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxImportSize+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unable to read upload")
		return
	}
	if len(data) > maxImportSize {
		writeError(w, http.StatusRequestEntityTooLarge, "file too large")
		return
	}
	ex, err := exchange.Read(data)
	if err != nil {
		h.logger.Warn("import rejected", slog.Any("error", err))
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := h.store.Replace(actor(r), ex); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
