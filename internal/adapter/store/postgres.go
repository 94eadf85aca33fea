package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"spotisheet/internal/domain"
	"spotisheet/internal/port"
)

// PostgresStore handles all relational database operations.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection and returns a store instance.
func NewPostgresStore(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// --- Users & Accounts ---

// UpsertUserAccount inserts or updates the user identified by a Spotify
// profile together with its credential record, in one transaction.
// expires_at is stored as an epoch in milliseconds.
func (s *PostgresStore) UpsertUserAccount(ctx context.Context, p *domain.SpotifyProfile, grant *domain.TokenGrant) (*domain.User, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	userQuery := `
		INSERT INTO users (spotify_id, display_name, email, avatar_url)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (spotify_id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			email = EXCLUDED.email,
			avatar_url = EXCLUDED.avatar_url,
			updated_at = NOW()
		RETURNING id, display_name, email, avatar_url, created_at, updated_at`

	var user domain.User
	err = tx.QueryRowContext(ctx, userQuery, p.ID, p.DisplayName, p.Email, p.AvatarURL).Scan(
		&user.ID, &user.DisplayName, &user.Email, &user.AvatarURL,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}

	accountQuery := `
		INSERT INTO accounts (user_id, provider_account_id, access_token, refresh_token, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			provider_account_id = EXCLUDED.provider_account_id,
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			expires_at = EXCLUDED.expires_at,
			updated_at = NOW()`

	if _, err := tx.ExecContext(ctx, accountQuery,
		user.ID, p.ID, grant.AccessToken, grant.RefreshToken, grant.ExpiresAt.UnixMilli(),
	); err != nil {
		return nil, fmt.Errorf("upsert account: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return &user, nil
}

// AccountByUserID reads the credential record for a user.
func (s *PostgresStore) AccountByUserID(ctx context.Context, userID string) (*domain.Account, error) {
	query := `SELECT user_id, provider_account_id, access_token, refresh_token, expires_at, updated_at
	          FROM accounts WHERE user_id = $1`

	var acct domain.Account
	var expiresAt int64
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&acct.UserID, &acct.ProviderAccountID, &acct.AccessToken,
		&acct.RefreshToken, &expiresAt, &acct.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account for user %s: %w", userID, port.ErrAccountState)
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	acct.ExpiresAt = time.UnixMilli(expiresAt)
	return &acct, nil
}

// UpdateAccountToken persists a refreshed credential. The update is
// conditional on the account row existing; zero rows updated is an error so
// callers never trust an in-memory token that was not made durable.
func (s *PostgresStore) UpdateAccountToken(ctx context.Context, userID, accessToken, refreshToken string, expiresAt time.Time) error {
	query := `UPDATE accounts
	          SET access_token = $1, refresh_token = $2, expires_at = $3, updated_at = NOW()
	          WHERE user_id = $4`

	res, err := s.db.ExecContext(ctx, query, accessToken, refreshToken, expiresAt.UnixMilli(), userID)
	if err != nil {
		return fmt.Errorf("update account token: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update account token: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("update account token for user %s: %w", userID, port.ErrAccountState)
	}
	return nil
}

// --- Audit Logs ---

// WriteAudit implements middleware.AuditWriter.
func (s *PostgresStore) WriteAudit(userID, action, resource, resourceID, details, ip, userAgent string) error {
	query := `INSERT INTO audit_logs (user_id, action, resource, resource_id, details, ip, user_agent)
	          VALUES ($1, $2, $3, $4, $5::jsonb, $6, $7)`
	_, err := s.db.ExecContext(context.Background(), query,
		userID, action, resource, resourceID, details, ip, userAgent,
	)
	return err
}

// ListAuditLogs returns recent audit logs with optional filters.
func (s *PostgresStore) ListAuditLogs(ctx context.Context, limit int, action string) ([]domain.AuditLog, error) {
	query := `SELECT id, user_id, action, resource, resource_id, details, ip, user_agent, created_at
	          FROM audit_logs`
	args := []interface{}{}
	argIdx := 1

	if action != "" {
		query += fmt.Sprintf(" WHERE action = $%d", argIdx)
		args = append(args, action)
		argIdx++
	}

	query += " ORDER BY created_at DESC"

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()

	var logs []domain.AuditLog
	for rows.Next() {
		var l domain.AuditLog
		if err := rows.Scan(
			&l.ID, &l.UserID, &l.Action, &l.Resource, &l.ResourceID,
			&l.Details, &l.IP, &l.UserAgent, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, nil
}
