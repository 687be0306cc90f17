package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kredio/kredio-backend/internal/domain"
)

// UserRepository implements domain.UserRepository using PostgreSQL
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, auth0_id, email, name, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	var name pgtype.Text
	err := row.Scan(
		&user.ID,
		&user.Auth0ID,
		&user.Email,
		&name,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	if name.Valid {
		user.Name = &name.String
	}
	return &user, nil
}

// GetByID retrieves a user by internal ID
func (r *UserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(), `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1`,
		id,
	)
	return scanUser(row)
}

// GetByAuth0ID retrieves a user by the Auth0 subject claim
func (r *UserRepository) GetByAuth0ID(auth0ID string) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(), `
		SELECT `+userColumns+`
		FROM users
		WHERE auth0_id = $1`,
		auth0ID,
	)
	return scanUser(row)
}

// CreateOrGetByAuth0ID inserts the user on first login and returns the
// existing row on subsequent ones.
func (r *UserRepository) CreateOrGetByAuth0ID(auth0ID, email string, name *string) (*domain.User, error) {
	nameValue := pgtype.Text{}
	if name != nil {
		nameValue.String = *name
		nameValue.Valid = true
	}

	// The no-op email update makes ON CONFLICT return the row
	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO users (id, auth0_id, email, name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (auth0_id) DO UPDATE SET email = EXCLUDED.email, updated_at = now()
		RETURNING `+userColumns,
		uuid.New(), auth0ID, email, nameValue,
	)
	return scanUser(row)
}
