package handlers

import (
	"errors"
	"mime"
	"net/http"
	"strconv"

	"trip-planner-service/internal/services"
)

type ExportHandler struct {
	Export *services.ExportService
}

// Download streams the generated itinerary document as an attachment.
func (h *ExportHandler) Download(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}

	doc, err := h.Export.Export(r.Context())
	if errors.Is(err, services.ErrExportFailed) {
		writeError(w, r, http.StatusBadGateway, "document generation failed")
		return
	}
	if err != nil {
		internalError(w, r, "export failed", err)
		return
	}

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.Body)
}
