package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"

	"certitrust/internal/models"
	"certitrust/internal/shellid"
	"certitrust/internal/store"
)

// AddRecord: POST /api/v1/records (admin, x-api-key)
// Appends one record to the blockchain collection with duplicate
// rejection by fingerprint.
func (h *Handler) AddRecord(w http.ResponseWriter, r *http.Request) {
	var rec models.CertificateRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeJSONResp(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Invalid data format."})
		return
	}

	shellID, err := h.store.Append(r.Context(), rec)
	switch {
	case errors.Is(err, store.ErrInvalidRecord):
		writeJSONResp(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Invalid data format."})
	case errors.Is(err, store.ErrDuplicateRecord):
		writeJSONResp(w, http.StatusConflict, map[string]any{"success": false, "message": "This certificate is already on the blockchain."})
	case err != nil:
		writeJSONResp(w, http.StatusInternalServerError, map[string]any{"success": false, "message": fmt.Sprintf("Failed to add record: %v", err)})
	default:
		writeJSONResp(w, http.StatusCreated, map[string]any{
			"success": true,
			"message": "Certificate successfully added to the blockchain.",
			"shellId": shellID,
		})
	}
}

// ListRecords: GET /api/v1/records
func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.GetAll(r.Context(), store.BlockchainKey)
	if err != nil {
		writeJSONResp(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "record store unavailable"})
		return
	}
	writeJSONResp(w, http.StatusOK, map[string]any{"records": records, "count": len(records)})
}

// BulkUploadDigiLocker: POST /api/v1/records/digilocker/bulk (admin)
// Accepts either a multipart "jsonFile" upload or a raw JSON array body
// and concatenates the records onto the DigiLocker collection.
func (h *Handler) BulkUploadDigiLocker(w http.ResponseWriter, r *http.Request) {
	var newRecords []map[string]any

	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(50 << 20); err != nil {
			writeJSONResp(w, http.StatusBadRequest, map[string]any{"success": false, "message": "failed to parse form"})
			return
		}
		file, _, err := r.FormFile("jsonFile")
		if err != nil {
			writeJSONResp(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Please upload a valid JSON file."})
			return
		}
		defer file.Close()
		if err := json.NewDecoder(file).Decode(&newRecords); err != nil {
			writeJSONResp(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Invalid JSON format. Please check the file content."})
			return
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&newRecords); err != nil {
			writeJSONResp(w, http.StatusBadRequest, map[string]any{"success": false, "message": "JSON body must contain an array of records."})
			return
		}
	}

	added, err := h.store.BulkAppend(r.Context(), newRecords)
	if err != nil {
		writeJSONResp(w, http.StatusInternalServerError, map[string]any{"success": false, "message": fmt.Sprintf("Failed to process records: %v", err)})
		return
	}
	writeJSONResp(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Successfully added %d records to the DigiLocker database.", added),
	})
}

// BlockchainAnchor: GET /api/v1/blockchain/anchor
// Returns the Keccak-256 digest of the canonicalized blockchain
// collection, a cheap tamper-evidence check over the whole set.
func (h *Handler) BlockchainAnchor(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.GetAll(r.Context(), store.BlockchainKey)
	if err != nil {
		writeJSONResp(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "record store unavailable"})
		return
	}
	anchor := crypto.Keccak256Hash(shellid.Canonical(records))
	writeJSONResp(w, http.StatusOK, map[string]any{
		"anchor":  anchor.Hex(),
		"records": len(records),
	})
}
