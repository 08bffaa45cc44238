package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/jask/pocketledger/internal/model"
)

// BudgetRepo handles the single per-owner budget aggregate. Values are
// stored as one JSON document per owner, matching the document-store shape
// the dataset service expects.
type BudgetRepo struct {
	db *sql.DB
}

func NewBudgetRepo(db *sql.DB) *BudgetRepo { return &BudgetRepo{db: db} }

// GetByOwner returns the owner's budget aggregate, or nil when none exists.
func (r *BudgetRepo) GetByOwner(ctx context.Context, ownerID string) (*model.BudgetDoc, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, owner_id, values_json FROM budgets WHERE owner_id = ?`, ownerID)
	var doc model.BudgetDoc
	var raw string
	if err := row.Scan(&doc.ID, &doc.OwnerID, &raw); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if err := json.Unmarshal([]byte(raw), &doc.Values); err != nil {
		return nil, err
	}
	if doc.Values == nil {
		doc.Values = model.BudgetValues{}
	}
	return &doc, nil
}

// Upsert creates the aggregate or replaces its values, keyed by owner.
func (r *BudgetRepo) Upsert(ctx context.Context, doc model.BudgetDoc) error {
	return upsertBudget(ctx, r.db, doc)
}

// UpsertTx upserts within an open transaction, for atomic batch commits.
func (r *BudgetRepo) UpsertTx(ctx context.Context, tx *sql.Tx, doc model.BudgetDoc) error {
	return upsertBudget(ctx, tx, doc)
}

func upsertBudget(ctx context.Context, ex execer, doc model.BudgetDoc) error {
	raw, err := json.Marshal(doc.Values)
	if err != nil {
		return err
	}
	_, err = ex.ExecContext(ctx, `
	INSERT INTO budgets(id, owner_id, values_json, updated_at)
	VALUES (?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(owner_id) DO UPDATE SET
	 values_json = excluded.values_json,
	 updated_at = CURRENT_TIMESTAMP;
	`, doc.ID, doc.OwnerID, string(raw))
	return err
}
