package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"certitrust/internal/config"
	"certitrust/internal/db"
	"certitrust/internal/oracle"
	"certitrust/internal/store"
	"certitrust/internal/verify"
)

// Handler bundles the collaborators every endpoint needs.
type Handler struct {
	verifier *verify.Verifier
	store    *store.Gateway
	cfg      config.Config
}

func New(verifier *verify.Verifier, gw *store.Gateway, cfg config.Config) *Handler {
	return &Handler{verifier: verifier, store: gw, cfg: cfg}
}

func writeJSONResp(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// VerifyDocument: POST /api/v1/verify-document
// multipart/form-data with file field "certificate"
func (h *Handler) VerifyDocument(w http.ResponseWriter, r *http.Request) {
	// Limit body to 10MB
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeJSONResp(w, http.StatusBadRequest, map[string]any{"status": "Bad_Request", "message": "failed to parse form or file too large"})
		return
	}

	file, header, err := r.FormFile("certificate")
	if err != nil {
		// Frontends disagree on the field name; try common alternatives.
		if r.MultipartForm != nil && r.MultipartForm.File != nil {
			alts := []string{"file", "upload", "image", "document", "cert", "certificateFile"}
			for _, a := range alts {
				if f2, h2, err2 := r.FormFile(a); err2 == nil {
					file, header, err = f2, h2, nil
					fmt.Println("verify: using alternative file field:", a)
					break
				}
			}
		}
		if err != nil {
			writeJSONResp(w, http.StatusBadRequest, map[string]any{"status": "Bad_Request", "message": "missing file field 'certificate' (send multipart/form-data with field name 'certificate')"})
			return
		}
	}
	defer file.Close()

	imgBytes, err := io.ReadAll(file)
	if err != nil || len(imgBytes) == 0 {
		writeJSONResp(w, http.StatusBadRequest, map[string]any{"status": "Bad_Request", "message": "failed to read uploaded file"})
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(imgBytes)
	}

	outcome, err := h.verifier.Verify(r.Context(), imgBytes, mimeType)
	if err != nil {
		status, msg := classifyVerifyError(err)
		writeJSONResp(w, status, map[string]any{"status": "Error", "message": msg})
		return
	}

	// Persist the report for later sharing; the verdict stands even if
	// this fails.
	if err := h.store.SaveReport(r.Context(), outcome); err != nil {
		fmt.Println("verify: failed to save report:", err)
	}
	db.RecordAudit(outcome)

	writeJSONResp(w, http.StatusOK, outcome)
}

func classifyVerifyError(err error) (int, string) {
	switch {
	case errors.Is(err, oracle.ErrQuotaExceeded):
		return http.StatusTooManyRequests, "API quota exceeded. You have made too many requests in a short period. Please wait a minute and try again."
	case errors.Is(err, oracle.ErrOverloaded):
		return http.StatusServiceUnavailable, "The verification service is temporarily overloaded. Please wait a moment and try again."
	case errors.Is(err, oracle.ErrExtractionIncomplete), errors.Is(err, verify.ErrMissingName):
		return http.StatusBadRequest, "The AI failed to extract all required fields from the document. Please try again with a clear, high-resolution image."
	case errors.Is(err, store.ErrStoreUnavailable):
		return http.StatusInternalServerError, "The record store is currently unavailable. Please try again later."
	default:
		return http.StatusInternalServerError, "An unexpected error occurred during verification."
	}
}
