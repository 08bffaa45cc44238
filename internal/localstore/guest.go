package localstore

import (
	"encoding/json"
	"strconv"

	"github.com/jask/pocketledger/internal/model"
)

// Storage keys for the guest dataset and UI preferences.
const (
	keyGuestTransactions = "guestTransactions"
	keyGuestBudgets      = "guestBudgets"
	keyDarkMode          = "darkMode"
)

// Store layers the guest dataset on top of the raw KV. Reads never fail:
// anything that does not decode is treated as an empty dataset.
type Store struct {
	kv *KV
}

func NewStore(kv *KV) *Store { return &Store{kv: kv} }

// KV exposes the underlying key/value store for collaborators that keep
// their own keys there (session records, account records).
func (s *Store) KV() *KV { return s.kv }

// GuestTransactions returns the locally persisted transaction list,
// most-recent-first as written. Records are tagged OriginLocal on the way
// out.
func (s *Store) GuestTransactions() []model.Transaction {
	raw, ok := s.kv.GetItem(keyGuestTransactions)
	if !ok {
		return nil
	}
	var txs []model.Transaction
	if err := json.Unmarshal([]byte(raw), &txs); err != nil {
		return nil
	}
	for i := range txs {
		txs[i].Origin = model.OriginLocal
	}
	return txs
}

// SaveGuestTransactions persists the full list, replacing what was there.
func (s *Store) SaveGuestTransactions(txs []model.Transaction) error {
	if txs == nil {
		txs = []model.Transaction{}
	}
	raw, err := json.Marshal(txs)
	if err != nil {
		return err
	}
	return s.kv.SetItem(keyGuestTransactions, string(raw))
}

// GuestBudgets returns the locally persisted budget map; malformed or
// missing data reads as empty.
func (s *Store) GuestBudgets() model.BudgetValues {
	raw, ok := s.kv.GetItem(keyGuestBudgets)
	if !ok {
		return model.BudgetValues{}
	}
	var values model.BudgetValues
	if err := json.Unmarshal([]byte(raw), &values); err != nil || values == nil {
		return model.BudgetValues{}
	}
	return values
}

// SaveGuestBudgets persists the full budget map.
func (s *Store) SaveGuestBudgets(values model.BudgetValues) error {
	if values == nil {
		values = model.BudgetValues{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return err
	}
	return s.kv.SetItem(keyGuestBudgets, string(raw))
}

// ClearGuestData removes the guest transactions and budgets. Preferences
// such as dark mode survive a sign-in.
func (s *Store) ClearGuestData() error {
	if err := s.kv.RemoveItem(keyGuestTransactions); err != nil {
		return err
	}
	return s.kv.RemoveItem(keyGuestBudgets)
}

// DarkMode reads the persisted theme preference, defaulting to light.
func (s *Store) DarkMode() bool {
	raw, ok := s.kv.GetItem(keyDarkMode)
	if !ok {
		return false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false
	}
	return v
}

// SetDarkMode persists the theme preference.
func (s *Store) SetDarkMode(on bool) error {
	return s.kv.SetItem(keyDarkMode, strconv.FormatBool(on))
}
