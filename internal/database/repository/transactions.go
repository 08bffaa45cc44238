package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jask/pocketledger/internal/model"
)

// execer is satisfied by both *sql.DB and *sql.Tx so batch commits can
// reuse the same statements inside a transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// TransactionRepo handles the transactions collection.
type TransactionRepo struct {
	db *sql.DB
}

func NewTransactionRepo(db *sql.DB) *TransactionRepo { return &TransactionRepo{db: db} }

func (r *TransactionRepo) Insert(ctx context.Context, t model.Transaction) error {
	return insertTransaction(ctx, r.db, t)
}

// InsertTx inserts within an open transaction, for atomic batch commits.
func (r *TransactionRepo) InsertTx(ctx context.Context, tx *sql.Tx, t model.Transaction) error {
	return insertTransaction(ctx, tx, t)
}

func insertTransaction(ctx context.Context, ex execer, t model.Transaction) error {
	_, err := ex.ExecContext(ctx, `
	INSERT INTO transactions(id, owner_id, title, description, amount, type, category, date, created_at, updated_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP);
	`, t.ID, t.OwnerID, t.Title, t.Description, t.Amount.Round(2).StringFixed(2), string(t.Type), t.Category, t.Date.UTC())
	return err
}

func (r *TransactionRepo) Update(ctx context.Context, t model.Transaction) error {
	_, err := r.db.ExecContext(ctx, `
	UPDATE transactions
	SET title = ?, description = ?, amount = ?, type = ?, category = ?, date = ?, updated_at = CURRENT_TIMESTAMP
	WHERE id = ? AND owner_id = ?;
	`, t.Title, t.Description, t.Amount.Round(2).StringFixed(2), string(t.Type), t.Category, t.Date.UTC(), t.ID, t.OwnerID)
	return err
}

// Delete removes a transaction. Deleting an absent id is a no-op.
func (r *TransactionRepo) Delete(ctx context.Context, id, ownerID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ? AND owner_id = ?`, id, ownerID)
	return err
}

// ListByOwner returns all of an owner's transactions, newest first.
func (r *TransactionRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, owner_id, title, description, amount, type, category, date, created_at, updated_at
	FROM transactions WHERE owner_id = ?
	ORDER BY date DESC, created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TransactionRepo) Get(ctx context.Context, id string) (*model.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT id, owner_id, title, description, amount, type, category, date, created_at, updated_at
	FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// scanner handles both Row and Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row scanner) (model.Transaction, error) {
	var t model.Transaction
	var amount, txType string
	var date, created, updated time.Time
	if err := row.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &amount, &txType, &t.Category, &date, &created, &updated); err != nil {
		return model.Transaction{}, err
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return model.Transaction{}, err
	}
	t.Amount = d
	t.Type = model.TxType(txType)
	t.Date = date.UTC()
	t.CreatedAt = created.UTC()
	t.UpdatedAt = updated.UTC()
	t.Origin = model.OriginRemote
	return t, nil
}
