// Package rules persists and resolves learned signature→template rules.
// The pipeline consumes the core.RuleStore interface only; this package
// provides the default sqlite-backed implementation and the per-page
// resolver with its lookup cache.
package rules

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/amehdaoui/coursepipe/core"
	"github.com/amehdaoui/coursepipe/core/markup"
)

//go:embed schema.sql
var schema string

// Store is a sqlite-backed rule store.
type Store struct {
	db *sql.DB
}

// OpenStore opens (and bootstraps) a rule database at the given path.
func OpenStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open rule database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init rule schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get retrieves a rule by signature or addon identifier. A signature match
// wins when both would hit. Returns (nil, nil) when nothing matches.
func (s *Store) Get(ctx context.Context, sig, addonID string) (*core.Rule, error) {
	query := `SELECT signature, addon_id, html_template, updated_at
		FROM conversion_rules WHERE signature = ?`
	args := []any{sig}
	if addonID != "" {
		query += ` OR addon_id = ?`
		args = append(args, addonID)
	}
	// Signature matches order first so at most one rule is returned
	// deterministically.
	query += ` ORDER BY CASE WHEN signature = ? THEN 0 ELSE 1 END LIMIT 1`
	args = append(args, sig)

	var r core.Rule
	err := s.db.QueryRowContext(ctx, query, args...).
		Scan(&r.Signature, &r.AddonID, &r.Template, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get rule: %w", err)
	}
	return &r, nil
}

// Upsert stores a rule, replacing any previous template for the same
// signature (last write wins). The template is cleaned to a fragment
// before storage.
func (s *Store) Upsert(ctx context.Context, sig, addonID, template string) (*core.Rule, error) {
	cleaned := markup.CleanDocument(template)
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO conversion_rules (signature, addon_id, html_template, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(signature) DO UPDATE SET
			addon_id = excluded.addon_id,
			html_template = excluded.html_template,
			updated_at = excluded.updated_at`,
		sig, addonID, cleaned, now,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert rule: %w", err)
	}

	return &core.Rule{
		Signature: sig,
		AddonID:   addonID,
		Template:  cleaned,
		UpdatedAt: now,
	}, nil
}

// List returns all stored rules ordered by most recently taught.
func (s *Store) List(ctx context.Context) ([]core.Rule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT signature, addon_id, html_template, updated_at
		FROM conversion_rules ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	defer rows.Close()

	var out []core.Rule
	for rows.Next() {
		var r core.Rule
		if err := rows.Scan(&r.Signature, &r.AddonID, &r.Template, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan rule: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
