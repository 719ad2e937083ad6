package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/nagavel/spottube/internal/models"
	"github.com/nagavel/spottube/internal/shared"
)

// AccountRepository persists [models.Account] credential records.
type AccountRepository struct {
	db *sql.DB
}

// NewAccountRepository creates a new [AccountRepository] with the given database connection
func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create inserts a new account with a generated ID and sequence.
func (r *AccountRepository) Create(account *models.Account) error {
	if err := account.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "accounts")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	account.SetID(shared.GenerateID())
	account.SetSequence(sequence)

	query := `
		INSERT INTO accounts (id, sequence, email, external_id, access_token, refresh_token, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, account.ID(), sequence, account.Email, account.ExternalID,
		account.AccessToken, account.RefreshToken, account.CreatedAt(), account.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}

	return nil
}

// UpsertByEmail inserts the account or, if a row for the email exists,
// replaces its identity and token pair. Called once per login.
func (r *AccountRepository) UpsertByEmail(account *models.Account) error {
	existing, err := r.GetByEmail(account.Email)
	if err != nil {
		return r.Create(account)
	}

	now := time.Now()
	account.SetID(existing.ID())
	account.SetSequence(existing.Sequence())
	account.SetCreatedAt(existing.CreatedAt())
	account.SetUpdatedAt(now)

	query := `
		UPDATE accounts
		SET external_id = ?, access_token = ?, refresh_token = ?, updated_at = ?
		WHERE email = ?
	`

	if _, err := r.db.Exec(query, account.ExternalID, account.AccessToken,
		account.RefreshToken, now, account.Email); err != nil {
		return fmt.Errorf("failed to upsert account: %w", err)
	}

	return nil
}

// UpdateAccessToken rewrites the access token column for the account matching
// the email. Called by every successful refresh cycle.
func (r *AccountRepository) UpdateAccessToken(email, accessToken string) error {
	query := `
		UPDATE accounts
		SET access_token = ?, updated_at = ?
		WHERE email = ?
	`

	result, err := r.db.Exec(query, accessToken, time.Now(), email)
	if err != nil {
		return fmt.Errorf("failed to update access token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrAccountNotFound, email)
	}

	return nil
}

// GetByEmail retrieves the account for an email.
func (r *AccountRepository) GetByEmail(email string) (*models.Account, error) {
	query := `
		SELECT id, sequence, email, external_id, access_token, refresh_token, created_at, updated_at
		FROM accounts
		WHERE email = ?
	`
	return r.scanOne(r.db.QueryRow(query, email), email)
}

// Get retrieves an account by ID.
func (r *AccountRepository) Get(id string) (*models.Account, error) {
	query := `
		SELECT id, sequence, email, external_id, access_token, refresh_token, created_at, updated_at
		FROM accounts
		WHERE id = ?
	`
	return r.scanOne(r.db.QueryRow(query, id), id)
}

// List retrieves accounts matching the given criteria, ordered by sequence.
func (r *AccountRepository) List(criteria map[string]any) ([]*models.Account, error) {
	query := `
		SELECT id, sequence, email, external_id, access_token, refresh_token, created_at, updated_at
		FROM accounts
	`
	args := []any{}

	if email, ok := criteria["email"].(string); ok && email != "" {
		query += " WHERE email = ?"
		args = append(args, email)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		account, err := scanAccount(rows.Scan)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return accounts, nil
}

// Delete removes an account by ID.
func (r *AccountRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM accounts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrAccountNotFound, id)
	}

	return nil
}

func (r *AccountRepository) scanOne(row *sql.Row, key string) (*models.Account, error) {
	account, err := scanAccount(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrAccountNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query account: %w", err)
	}
	return account, nil
}

func scanAccount(scan func(dest ...any) error) (*models.Account, error) {
	var (
		id           string
		sequence     int
		email        string
		externalID   string
		accessToken  string
		refreshToken string
		createdAt    time.Time
		updatedAt    time.Time
	)

	if err := scan(&id, &sequence, &email, &externalID, &accessToken, &refreshToken, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	account := models.NewAccount(sequence, email, externalID, accessToken, refreshToken)
	account.SetID(id)
	account.SetCreatedAt(createdAt)
	account.SetUpdatedAt(updatedAt)
	return account, nil
}
