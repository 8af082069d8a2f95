package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/lakshyamela/platform/internal/models"
)

// AllowlistService reads the two pre-approval tables: allowed_owners and
// allowed_clubs. Membership is re-checked on every request, never cached.
type AllowlistService struct {
	db *pgxpool.Pool
}

// NewAllowlistService creates a new AllowlistService.
func NewAllowlistService(db *pgxpool.Pool) *AllowlistService {
	return &AllowlistService{db: db}
}

// NormalizeEmail lowercases and trims an email for comparison and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AllowlistService) exists(ctx context.Context, table, email string) (bool, error) {
	var one int
	err := s.db.QueryRow(ctx,
		"SELECT 1 FROM "+table+" WHERE email = $1",
		NormalizeEmail(email),
	).Scan(&one)
	if err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("failed to check %s: %w", table, err)
	}
	return true, nil
}

// IsAllowedOwner reports whether the email is in the owners allowlist.
func (s *AllowlistService) IsAllowedOwner(ctx context.Context, email string) (bool, error) {
	return s.exists(ctx, "allowed_owners", email)
}

// IsAllowedClub reports whether the email is in the clubs allowlist.
func (s *AllowlistService) IsAllowedClub(ctx context.Context, email string) (bool, error) {
	return s.exists(ctx, "allowed_clubs", email)
}

// IsAllowed reports whether the email is in either allowlist. The two
// lookups run concurrently and both must complete; a failure of either is
// surfaced as an error, never as "not found".
func (s *AllowlistService) IsAllowed(ctx context.Context, email string) (bool, error) {
	var owner, club bool

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		owner, err = s.IsAllowedOwner(gctx, email)
		return err
	})
	g.Go(func() error {
		var err error
		club, err = s.IsAllowedClub(gctx, email)
		return err
	})
	if err := g.Wait(); err != nil {
		return false, err
	}

	return owner || club, nil
}

// ClubEmails returns the clubs allowlist as a lowercase email set, dropping
// empty values.
func (s *AllowlistService) ClubEmails(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, "SELECT email FROM allowed_clubs")
	if err != nil {
		return nil, fmt.Errorf("failed to load club allowlist: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email *string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("failed to scan club email: %w", err)
		}
		if email == nil {
			continue
		}
		if e := NormalizeEmail(*email); e != "" {
			emails = append(emails, e)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load club allowlist: %w", err)
	}

	return emails, nil
}

// Add inserts an email into the named allowlist (idempotent). Used by the
// admin CLI; the HTTP surface never mutates allowlists.
func (s *AllowlistService) Add(ctx context.Context, table, email string) error {
	e := NormalizeEmail(email)
	if e == "" {
		return fmt.Errorf("email is required")
	}
	_, err := s.db.Exec(ctx,
		"INSERT INTO "+table+" (email) VALUES ($1) ON CONFLICT (email) DO NOTHING", e)
	return err
}

// Remove deletes an email from the named allowlist.
func (s *AllowlistService) Remove(ctx context.Context, table, email string) error {
	_, err := s.db.Exec(ctx, "DELETE FROM "+table+" WHERE email = $1", NormalizeEmail(email))
	return err
}

// List returns all entries of the named allowlist.
func (s *AllowlistService) List(ctx context.Context, table string) ([]models.AllowlistEntry, error) {
	rows, err := s.db.Query(ctx, "SELECT email FROM "+table+" ORDER BY email")
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", table, err)
	}
	defer rows.Close()

	var entries []models.AllowlistEntry
	for rows.Next() {
		var e models.AllowlistEntry
		if err := rows.Scan(&e.Email); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", table, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Allowlist table names accepted by Add/Remove/List.
const (
	TableOwners = "allowed_owners"
	TableClubs  = "allowed_clubs"
)
