package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"

	"certitrust/internal/config"
	"certitrust/internal/handlers"
	"certitrust/internal/models"
	"certitrust/internal/router"
	"certitrust/internal/store"
	"certitrust/internal/verify"
)

const testAPIKey = "test-institution-key"

type stubOracle struct{}

func (stubOracle) Extract(context.Context, []byte, string) (models.Extraction, error) {
	return models.Extraction{Name: "Aarav Sharma"}, nil
}

type HandlersSuite struct {
	suite.Suite
	gw  *store.Gateway
	srv http.Handler
}

func TestHandlersSuite(t *testing.T) {
	suite.Run(t, new(HandlersSuite))
}

func (s *HandlersSuite) SetupTest() {
	s.gw = store.NewGateway(store.NewMemoryKV())
	cfg := config.Config{
		InstitutionAPIKey: testAPIKey,
		ShareTokenSecret:  "test-share-secret",
		FrontendBaseURL:   "http://localhost:3000",
	}
	v := verify.New(s.gw, stubOracle{})
	s.srv = router.RegisterRouter(handlers.New(v, s.gw, cfg), cfg.InstitutionAPIKey)
}

func (s *HandlersSuite) do(method, path, apiKey string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("x-api-key", apiKey)
	}
	rec := httptest.NewRecorder()
	s.srv.ServeHTTP(rec, req)
	return rec
}

func (s *HandlersSuite) TestAddRecordLifecycle() {
	record := models.CertificateRecord{
		Name:          "Devika Rao",
		RollNumber:    "220301",
		CertificateID: "CERT-2022-0301",
	}

	s.Run("rejects missing api key", func() {
		rec := s.do(http.MethodPost, "/api/v1/records", "", record)
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("rejects wrong api key", func() {
		rec := s.do(http.MethodPost, "/api/v1/records", "wrong", record)
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("creates a new record", func() {
		rec := s.do(http.MethodPost, "/api/v1/records", testAPIKey, record)
		s.Require().Equal(http.StatusCreated, rec.Code)

		var resp map[string]any
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.Equal(true, resp["success"])
		s.Len(resp["shellId"], 64)
	})

	s.Run("rejects the identical record as duplicate", func() {
		rec := s.do(http.MethodPost, "/api/v1/records", testAPIKey, record)
		s.Equal(http.StatusConflict, rec.Code)
	})

	s.Run("rejects a record without a name", func() {
		rec := s.do(http.MethodPost, "/api/v1/records", testAPIKey, models.CertificateRecord{RollNumber: "1"})
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *HandlersSuite) TestListRecordsReturnsSeededCollection() {
	rec := s.do(http.MethodGet, "/api/v1/records", "", nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp struct {
		Records []map[string]any `json:"records"`
		Count   int              `json:"count"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.NotZero(resp.Count)
	s.Len(resp.Records, resp.Count)
}

func (s *HandlersSuite) TestBulkUploadDigiLocker() {
	batch := []map[string]any{
		{"Student Name": "Tara Joshi", "Roll Number": "200101"},
	}
	rec := s.do(http.MethodPost, "/api/v1/records/digilocker/bulk", testAPIKey, batch)
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal(true, resp["success"])
}

func (s *HandlersSuite) TestBlockchainAnchorIsStable() {
	first := s.do(http.MethodGet, "/api/v1/blockchain/anchor", "", nil)
	second := s.do(http.MethodGet, "/api/v1/blockchain/anchor", "", nil)
	s.Require().Equal(http.StatusOK, first.Code)
	s.JSONEq(first.Body.String(), second.Body.String())

	// Appending a record moves the anchor.
	s.do(http.MethodPost, "/api/v1/records", testAPIKey, models.CertificateRecord{Name: "Devika Rao"})
	third := s.do(http.MethodGet, "/api/v1/blockchain/anchor", "", nil)
	s.NotEqual(first.Body.String(), third.Body.String())
}

func (s *HandlersSuite) TestShareFlow() {
	outcome := models.VerificationOutcome{
		ReportID:   "r-777",
		Verdict:    models.VerdictValid,
		TrustScore: 95,
	}
	s.Require().NoError(s.gw.SaveReport(context.Background(), outcome))

	s.Run("unknown report is not shareable", func() {
		rec := s.do(http.MethodPost, "/api/v1/reports/share", "", map[string]any{
			"report_id": "missing", "expires_in_hours": 24,
		})
		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("share then fetch with token", func() {
		rec := s.do(http.MethodPost, "/api/v1/reports/share", "", map[string]any{
			"report_id": "r-777", "expires_in_hours": 24,
		})
		s.Require().Equal(http.StatusOK, rec.Code)

		var resp struct {
			Token string `json:"token"`
		}
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.Require().NotEmpty(resp.Token)

		get := s.do(http.MethodGet, "/api/v1/reports/r-777?token="+resp.Token, "", nil)
		s.Require().Equal(http.StatusOK, get.Code)

		var got models.VerificationOutcome
		s.Require().NoError(json.Unmarshal(get.Body.Bytes(), &got))
		s.Equal(models.VerdictValid, got.Verdict)

		qr := s.do(http.MethodGet, "/api/v1/reports/r-777/qrcode?token="+resp.Token, "", nil)
		s.Equal(http.StatusOK, qr.Code)
		s.Equal("image/png", qr.Result().Header.Get("Content-Type"))
	})

	s.Run("fetch without token is rejected", func() {
		rec := s.do(http.MethodGet, "/api/v1/reports/r-777", "", nil)
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("token for one report does not open another", func() {
		rec := s.do(http.MethodPost, "/api/v1/reports/share", "", map[string]any{
			"report_id": "r-777", "expires_in_hours": 1,
		})
		s.Require().Equal(http.StatusOK, rec.Code)
		var resp struct {
			Token string `json:"token"`
		}
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))

		other := models.VerificationOutcome{ReportID: "r-888", Verdict: models.VerdictForged}
		s.Require().NoError(s.gw.SaveReport(context.Background(), other))

		get := s.do(http.MethodGet, "/api/v1/reports/r-888?token="+resp.Token, "", nil)
		s.Equal(http.StatusUnauthorized, get.Code)
	})
}
