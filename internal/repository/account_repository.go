package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/repair-shop-service/internal/domain"
)

// AccountRepository defines persistence access for actor accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	CreateEmployeeAccount(ctx context.Context, account *domain.Account, employee *domain.Employee) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	UpdateProfile(ctx context.Context, account *domain.Account) error
}

type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository returns a Postgres-backed implementation.
func NewAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &accountRepository{pool: pool}
}

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	const query = `
        INSERT INTO accounts (name, email, password_hash, role, profile_complete)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		account.Name,
		account.Email,
		account.PasswordHash,
		account.Role,
		account.ProfileComplete,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
}

// CreateEmployeeAccount inserts the account and its workload record in one
// transaction, so a failed employee insert never strands an account row.
func (r *accountRepository) CreateEmployeeAccount(ctx context.Context, account *domain.Account, employee *domain.Employee) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const accountQuery = `
        INSERT INTO accounts (name, email, password_hash, role, profile_complete)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`
	if err := tx.QueryRow(ctx, accountQuery,
		account.Name,
		account.Email,
		account.PasswordHash,
		account.Role,
		account.ProfileComplete,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt); err != nil {
		return err
	}

	employee.ID = account.ID
	const employeeQuery = `
        INSERT INTO employees (id, name, email, status)
        VALUES ($1,$2,$3,$4)
        RETURNING created_at, updated_at`
	if err := tx.QueryRow(ctx, employeeQuery,
		employee.ID,
		employee.Name,
		employee.Email,
		employee.Status,
	).Scan(&employee.CreatedAt, &employee.UpdatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	const query = `
        SELECT id, name, email, password_hash, role, profile_complete,
               phone, address, city, pincode, created_at, updated_at
        FROM accounts WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	const query = `
        SELECT id, name, email, password_hash, role, profile_complete,
               phone, address, city, pincode, created_at, updated_at
        FROM accounts WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *accountRepository) UpdateProfile(ctx context.Context, account *domain.Account) error {
	const query = `
        UPDATE accounts SET name=$1, phone=$2, address=$3, city=$4, pincode=$5,
            profile_complete=$6, updated_at=NOW()
        WHERE id=$7`

	cmd, err := r.pool.Exec(ctx, query,
		account.Name,
		account.Phone,
		account.Address,
		account.City,
		account.Pincode,
		account.ProfileComplete,
		account.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *accountRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Account, error) {
	var account domain.Account
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&account.ID,
		&account.Name,
		&account.Email,
		&account.PasswordHash,
		&account.Role,
		&account.ProfileComplete,
		&account.Phone,
		&account.Address,
		&account.City,
		&account.Pincode,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &account, nil
}
