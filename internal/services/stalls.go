package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StallService reads stall submissions. Submissions are created by the
// out-of-band submission flow (or the seed CLI) and are read-only here.
type StallService struct {
	db *pgxpool.Pool
}

// NewStallService creates a new StallService.
func NewStallService(db *pgxpool.Pool) *StallService {
	return &StallService{db: db}
}

// ListByOwners returns the payloads of all submissions whose owner email is
// in the given set, newest first. When category is non-empty only payloads
// whose own category field equals it (case-insensitively) are kept; payloads
// without a category field are treated as not matching.
func (s *StallService) ListByOwners(ctx context.Context, ownerEmails []string, category string) ([]json.RawMessage, error) {
	rows, err := s.db.Query(ctx,
		"SELECT payload FROM stall_submissions WHERE owner_email = ANY($1) ORDER BY created_at DESC",
		ownerEmails,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load club stalls: %w", err)
	}
	defer rows.Close()

	payloads := []json.RawMessage{}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan stall payload: %w", err)
		}
		if category != "" && !payloadMatchesCategory(payload, category) {
			continue
		}
		payloads = append(payloads, json.RawMessage(payload))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load club stalls: %w", err)
	}

	return payloads, nil
}

// payloadMatchesCategory peeks at just the payload's category field. A
// payload that fails to decode or has no category does not match.
func payloadMatchesCategory(payload []byte, category string) bool {
	var probe struct {
		Category string `json:"category"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return false
	}
	return strings.EqualFold(probe.Category, category)
}

// CreateSubmission upserts a stall submission for an owner. Only the seed
// CLI calls this; the HTTP surface never writes submissions.
func (s *StallService) CreateSubmission(ctx context.Context, ownerEmail, slug string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO stall_submissions (id, owner_email, stall_slug, payload, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (owner_email, stall_slug) DO UPDATE SET payload = EXCLUDED.payload`,
		uuid.New().String(),
		NormalizeEmail(ownerEmail),
		slug,
		data,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}
	return nil
}
