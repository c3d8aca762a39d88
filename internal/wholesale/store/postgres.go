package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"sellarte/internal/wholesale"
	id "sellarte/pkg/domain"
	"sellarte/pkg/sentinel"
)

// Postgres persists wholesale accounts via database/sql and the pq driver.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, account *wholesale.Account) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO wholesale_accounts (id, email, company, tier, status, created_at, updated_at)
		VALUES ($1, lower($2), $3, $4, $5, $6, $6)
	`, uuid.UUID(account.ID), account.Email, account.Company, string(account.Tier), string(account.Status), account.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert wholesale account: %w", err)
	}
	return nil
}

func (s *Postgres) Get(ctx context.Context, accountID id.AccountID) (*wholesale.Account, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, company, tier, status, created_at, updated_at
		FROM wholesale_accounts
		WHERE id = $1
	`, uuid.UUID(accountID))
	return scanAccount(row)
}

func (s *Postgres) GetByEmail(ctx context.Context, email string) (*wholesale.Account, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, company, tier, status, created_at, updated_at
		FROM wholesale_accounts
		WHERE email = lower($1)
	`, email)
	return scanAccount(row)
}

func (s *Postgres) List(ctx context.Context) ([]*wholesale.Account, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, email, company, tier, status, created_at, updated_at
		FROM wholesale_accounts
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("list wholesale accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*wholesale.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wholesale accounts: %w", err)
	}
	return accounts, nil
}

func (s *Postgres) Update(ctx context.Context, account *wholesale.Account) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE wholesale_accounts
		SET tier = $2, status = $3, company = $4, updated_at = now()
		WHERE id = $1
	`, uuid.UUID(account.ID), string(account.Tier), string(account.Status), account.Company)
	if err != nil {
		return fmt.Errorf("update wholesale account: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update wholesale account: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanAccount maps a row with explicit fields; unexpected shapes fail here,
// before they can reach pricing logic.
func scanAccount(row rowScanner) (*wholesale.Account, error) {
	var (
		account wholesale.Account
		rawID   uuid.UUID
		tier    string
		status  string
	)
	err := row.Scan(&rawID, &account.Email, &account.Company, &tier, &status, &account.CreatedAt, &account.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan wholesale account: %w", err)
	}

	account.ID = id.AccountID(rawID)
	account.Tier = wholesale.Tier(tier)
	account.Status = wholesale.Status(status)
	if !account.Status.IsValid() {
		return nil, fmt.Errorf("wholesale account %s has invalid status %q", account.ID, status)
	}
	return &account, nil
}
