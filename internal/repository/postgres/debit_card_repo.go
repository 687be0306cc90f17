package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kredio/kredio-backend/internal/domain"
)

// DebitCardRepository implements domain.DebitCardRepository using PostgreSQL
type DebitCardRepository struct {
	pool *pgxpool.Pool
}

// NewDebitCardRepository creates a new DebitCardRepository
func NewDebitCardRepository(pool *pgxpool.Pool) *DebitCardRepository {
	return &DebitCardRepository{pool: pool}
}

const debitCardColumns = `id, user_id, number, type, expiration_date, disabled_at, created_at, updated_at, deleted_at`

func scanDebitCard(row pgx.Row) (*domain.DebitCard, error) {
	var card domain.DebitCard
	var disabledAt, deletedAt pgtype.Timestamptz
	err := row.Scan(
		&card.ID,
		&card.UserID,
		&card.Number,
		&card.Type,
		&card.ExpirationDate,
		&disabledAt,
		&card.CreatedAt,
		&card.UpdatedAt,
		&deletedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrDebitCardNotFound
		}
		return nil, err
	}
	if disabledAt.Valid {
		card.DisabledAt = &disabledAt.Time
	}
	if deletedAt.Valid {
		card.DeletedAt = &deletedAt.Time
	}
	return &card, nil
}

// Create creates a new debit card
func (r *DebitCardRepository) Create(card *domain.DebitCard) (*domain.DebitCard, error) {
	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO debit_cards (user_id, number, type, expiration_date)
		VALUES ($1, $2, $3, $4)
		RETURNING `+debitCardColumns,
		card.UserID,
		card.Number,
		card.Type,
		card.ExpirationDate,
	)
	return scanDebitCard(row)
}

// GetByID retrieves a card owned by the user. Deleted cards and other
// users' cards answer not-found.
func (r *DebitCardRepository) GetByID(userID uuid.UUID, id int32) (*domain.DebitCard, error) {
	row := r.pool.QueryRow(context.Background(), `
		SELECT `+debitCardColumns+`
		FROM debit_cards
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`,
		id, userID,
	)
	return scanDebitCard(row)
}

// GetAllByUser retrieves the user's cards, newest first
func (r *DebitCardRepository) GetAllByUser(userID uuid.UUID) ([]*domain.DebitCard, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT `+debitCardColumns+`
		FROM debit_cards
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cards := []*domain.DebitCard{}
	for rows.Next() {
		card, err := scanDebitCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

// SetDisabled sets or clears the card's disabled timestamp
func (r *DebitCardRepository) SetDisabled(userID uuid.UUID, id int32, disabledAt *time.Time) (*domain.DebitCard, error) {
	value := pgtype.Timestamptz{}
	if disabledAt != nil {
		value.Time = *disabledAt
		value.Valid = true
	}

	row := r.pool.QueryRow(context.Background(), `
		UPDATE debit_cards
		SET disabled_at = $3, updated_at = now()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
		RETURNING `+debitCardColumns,
		id, userID, value,
	)
	return scanDebitCard(row)
}

// SoftDelete marks the card deleted without removing the row
func (r *DebitCardRepository) SoftDelete(userID uuid.UUID, id int32) error {
	tag, err := r.pool.Exec(context.Background(), `
		UPDATE debit_cards
		SET deleted_at = now(), updated_at = now()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDebitCardNotFound
	}
	return nil
}

// HasTransactions reports whether any transactions reference the card
func (r *DebitCardRepository) HasTransactions(id int32) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(context.Background(), `
		SELECT EXISTS (
			SELECT 1 FROM debit_card_transactions WHERE debit_card_id = $1
		)`,
		id,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}
