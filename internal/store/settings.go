package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
)

const identitySecretKey = "identity_secret"

// GetIdentitySecret retrieves the key used to sign identity tokens.
// If no secret exists, it generates one, stores it, and returns it.
// Uses INSERT OR IGNORE + re-SELECT to avoid TOCTOU race on concurrent startup.
func GetIdentitySecret(ctx context.Context, db *sql.DB) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating identity secret: %w", err)
	}
	candidate := hex.EncodeToString(buf)

	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`,
		identitySecretKey, candidate,
	)
	if err != nil {
		return "", fmt.Errorf("storing identity secret: %w", err)
	}

	// Always read back (either our insert or the existing value).
	var secret string
	err = db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, identitySecretKey,
	).Scan(&secret)
	if err != nil {
		return "", fmt.Errorf("querying identity secret: %w", err)
	}

	return secret, nil
}
