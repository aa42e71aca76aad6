package router

import (
	"fmt"
	"net/http"

	"certitrust/internal/handlers"
	"certitrust/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRouter(h *handlers.Handler, institutionAPIKey string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.CORSMiddleware)
	r.Use(middleware.LoggingMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "ok")
	})

	// Verification (public)
	r.Post("/api/v1/verify-document", h.VerifyDocument)
	r.Get("/api/v1/records", h.ListRecords)
	r.Get("/api/v1/blockchain/anchor", h.BlockchainAnchor)

	// Shared verification reports (token required via query param)
	r.Post("/api/v1/reports/share", h.GenerateShareLink)
	r.Get("/api/v1/reports/{id}", h.GetSharedReport)
	r.Get("/api/v1/reports/{id}/qrcode", h.ReportQRCode)

	// Institution admin (static shared-secret header)
	r.Group(func(r chi.Router) {
		r.Use(middleware.APIKeyMiddleware(institutionAPIKey))
		r.Post("/api/v1/records", h.AddRecord)
		r.Post("/api/v1/records/digilocker/bulk", h.BulkUploadDigiLocker)
	})

	return r
}
