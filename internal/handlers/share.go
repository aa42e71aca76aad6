package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"certitrust/internal/store"
)

type shareClaims struct {
	ReportID string `json:"report_id"`
	jwt.RegisteredClaims
}

type generateShareLinkResp struct {
	ShareableURL string `json:"shareable_url"`
	Token        string `json:"token"`
}

// GenerateShareLink: POST /api/v1/reports/share
// Issues a time-limited signed link to a stored verification report.
func (h *Handler) GenerateShareLink(w http.ResponseWriter, r *http.Request) {
	// Be liberal in what we accept from the frontend
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	reportID := ""
	if v, ok := payload["report_id"].(string); ok {
		reportID = strings.TrimSpace(v)
	} else if v, ok := payload["reportId"].(string); ok { // optional camelCase fallback
		reportID = strings.TrimSpace(v)
	}
	if reportID == "" {
		http.Error(w, "report_id is required", http.StatusBadRequest)
		return
	}

	// expires_in_hours may come as number or string
	parseHours := func(x any) (int, bool) {
		switch t := x.(type) {
		case float64:
			return int(t), true
		case string:
			if i, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
				return i, true
			}
		}
		return 0, false
	}
	expires := 0
	if v, ok := payload["expires_in_hours"]; ok {
		if i, ok2 := parseHours(v); ok2 {
			expires = i
		}
	} else if v, ok := payload["expiresInHours"]; ok {
		if i, ok2 := parseHours(v); ok2 {
			expires = i
		}
	}
	// Enforce 1..168 hours to avoid immediately-expired tokens
	if expires < 1 || expires > 168 {
		http.Error(w, "expires_in_hours must be between 1 and 168", http.StatusBadRequest)
		return
	}

	if _, err := h.store.GetReport(r.Context(), reportID); err != nil {
		if errors.Is(err, store.ErrReportNotFound) {
			http.Error(w, "report not found", http.StatusNotFound)
			return
		}
		http.Error(w, "record store unavailable", http.StatusInternalServerError)
		return
	}

	exp := time.Now().Add(time.Duration(expires) * time.Hour)
	claims := shareClaims{
		ReportID: reportID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(h.cfg.ShareTokenSecret))
	if err != nil {
		http.Error(w, "failed to sign share token", http.StatusInternalServerError)
		return
	}

	url := fmt.Sprintf("%s/reports/%s?token=%s", trimRightSlash(h.cfg.FrontendBaseURL), reportID, signed)
	writeJSONResp(w, http.StatusOK, generateShareLinkResp{ShareableURL: url, Token: signed})
}

// GetSharedReport: GET /api/v1/reports/{id}?token=...
func (h *Handler) GetSharedReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, "missing id", http.StatusBadRequest)
		return
	}
	if !h.validShareToken(r.URL.Query().Get("token"), id) {
		http.Error(w, "This verification link is invalid or has expired.", http.StatusUnauthorized)
		return
	}

	outcome, err := h.store.GetReport(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrReportNotFound) {
			http.Error(w, "report not found", http.StatusNotFound)
			return
		}
		http.Error(w, "record store unavailable", http.StatusInternalServerError)
		return
	}
	writeJSONResp(w, http.StatusOK, outcome)
}

func (h *Handler) validShareToken(tokenStr, reportID string) bool {
	if tokenStr == "" {
		return false
	}
	parsed, err := jwt.ParseWithClaims(tokenStr, &shareClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(h.cfg.ShareTokenSecret), nil
	})
	if err != nil || !parsed.Valid {
		return false
	}
	claims, ok := parsed.Claims.(*shareClaims)
	if !ok || claims.ReportID == "" || claims.ExpiresAt == nil || time.Now().After(claims.ExpiresAt.Time) {
		return false
	}
	return claims.ReportID == reportID
}

func trimRightSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}
