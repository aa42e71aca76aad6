// Package store is the gateway over the two record collections. Each
// collection is a JSON array held whole under one key, lazily seeded
// from the bundled dataset on first read.
package store

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"certitrust/internal/models"
	"certitrust/internal/shellid"
)

const (
	// BlockchainKey holds the application-managed collection.
	BlockchainKey = "blockchain_records"
	// DigiLockerKey holds the externally sourced collection.
	DigiLockerKey = "digilocker_records"

	reportKeyPrefix = "report:"
)

//go:embed data/blockchain.json data/digilocker.json
var seedFS embed.FS

var (
	// ErrStoreUnavailable means the persisted collection could not be
	// read or written. Never reseed on this: reseeding would destroy
	// previously appended records.
	ErrStoreUnavailable = errors.New("record store unavailable")
	// ErrDuplicateRecord is a defined outcome of Append, not a failure.
	ErrDuplicateRecord = errors.New("record already exists")
	// ErrInvalidRecord means the record shape failed validation.
	ErrInvalidRecord = errors.New("invalid record")
	// ErrReportNotFound means no report is stored under the given id.
	ErrReportNotFound = errors.New("report not found")
)

// Gateway mediates all reads and writes of the record collections.
type Gateway struct {
	kv KV
}

func NewGateway(kv KV) *Gateway {
	return &Gateway{kv: kv}
}

// GetAll returns the raw records of a collection, seeding it from the
// bundled dataset if the store has no entry for that key yet.
func (g *Gateway) GetAll(ctx context.Context, key string) ([]map[string]any, error) {
	b, ok, err := g.kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %v", ErrStoreUnavailable, key, err)
	}
	if !ok {
		return g.seed(ctx, key)
	}
	var records []map[string]any
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, fmt.Errorf("%w: corrupt collection %s: %v", ErrStoreUnavailable, key, err)
	}
	return records, nil
}

func (g *Gateway) seed(ctx context.Context, key string) ([]map[string]any, error) {
	var name string
	switch key {
	case BlockchainKey:
		name = "data/blockchain.json"
	case DigiLockerKey:
		name = "data/digilocker.json"
	default:
		return []map[string]any{}, nil
	}
	raw, err := seedFS.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("%w: seed dataset %s: %v", ErrStoreUnavailable, name, err)
	}
	var records []map[string]any
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: seed dataset %s: %v", ErrStoreUnavailable, name, err)
	}
	if err := g.persist(ctx, key, records); err != nil {
		return nil, err
	}
	return records, nil
}

func (g *Gateway) persist(ctx context.Context, key string, records []map[string]any) error {
	b, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("%w: marshal %s: %v", ErrStoreUnavailable, key, err)
	}
	if err := g.kv.Set(ctx, key, b); err != nil {
		return fmt.Errorf("%w: set %s: %v", ErrStoreUnavailable, key, err)
	}
	return nil
}

// Append adds a record to the blockchain collection, rejecting it when
// an existing record carries the same fingerprint. The duplicate scan
// and the write are not atomic against concurrent appends; see
// DESIGN.md.
func (g *Gateway) Append(ctx context.Context, rec models.CertificateRecord) (string, error) {
	if strings.TrimSpace(rec.Name) == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidRecord)
	}

	records, err := g.GetAll(ctx, BlockchainKey)
	if err != nil {
		return "", err
	}

	newID := shellid.Fingerprint(rec)
	for _, existing := range records {
		if shellid.Fingerprint(existing) == newID {
			return newID, ErrDuplicateRecord
		}
	}

	raw, err := toRaw(rec)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	records = append(records, raw)
	if err := g.persist(ctx, BlockchainKey, records); err != nil {
		return "", err
	}
	return newID, nil
}

// BulkAppend concatenates records onto the DigiLocker collection with
// no deduplication. That is a deliberate scope boundary of the admin
// bulk path, not behavior to copy elsewhere.
func (g *Gateway) BulkAppend(ctx context.Context, newRecords []map[string]any) (int, error) {
	records, err := g.GetAll(ctx, DigiLockerKey)
	if err != nil {
		return 0, err
	}
	records = append(records, newRecords...)
	if err := g.persist(ctx, DigiLockerKey, records); err != nil {
		return 0, err
	}
	return len(newRecords), nil
}

// SaveReport stores a verification outcome under its report id so the
// result can be shared later.
func (g *Gateway) SaveReport(ctx context.Context, outcome models.VerificationOutcome) error {
	b, err := json.Marshal(outcome)
	if err != nil {
		return fmt.Errorf("%w: marshal report: %v", ErrStoreUnavailable, err)
	}
	if err := g.kv.Set(ctx, reportKeyPrefix+outcome.ReportID, b); err != nil {
		return fmt.Errorf("%w: save report: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// GetReport fetches a stored verification outcome by report id.
func (g *Gateway) GetReport(ctx context.Context, id string) (models.VerificationOutcome, error) {
	var outcome models.VerificationOutcome
	b, ok, err := g.kv.Get(ctx, reportKeyPrefix+id)
	if err != nil {
		return outcome, fmt.Errorf("%w: get report: %v", ErrStoreUnavailable, err)
	}
	if !ok {
		return outcome, ErrReportNotFound
	}
	if err := json.Unmarshal(b, &outcome); err != nil {
		return outcome, fmt.Errorf("%w: corrupt report %s: %v", ErrStoreUnavailable, id, err)
	}
	return outcome, nil
}

func toRaw(rec models.CertificateRecord) (map[string]any, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
