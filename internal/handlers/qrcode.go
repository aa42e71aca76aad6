package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/skip2/go-qrcode"
)

// ReportQRCode: GET /api/v1/reports/{id}/qrcode?token=...
// Renders the shareable report URL as a PNG. The same signed token that
// guards the report guards its QR code.
func (h *Handler) ReportQRCode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, "missing id", http.StatusBadRequest)
		return
	}
	token := r.URL.Query().Get("token")
	if !h.validShareToken(token, id) {
		http.Error(w, "This verification link is invalid or has expired.", http.StatusUnauthorized)
		return
	}

	url := fmt.Sprintf("%s/reports/%s?token=%s", trimRightSlash(h.cfg.FrontendBaseURL), id, token)
	png, err := qrcode.Encode(url, qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
