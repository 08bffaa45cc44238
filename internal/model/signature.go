package model

import (
	"fmt"
	"strings"
)

// Signature derives the content key used to detect equivalent transactions
// across the guest and remote datasets: normalized title, amount at two
// decimals, type, category and calendar day. Records that never shared an id
// space can only be matched on content, and day granularity absorbs
// time-of-day drift between stores.
func Signature(t Transaction) string {
	title := strings.ToLower(strings.TrimSpace(t.Title))
	return fmt.Sprintf("%s_%s_%s_%s_%s",
		title,
		t.Amount.Round(2).StringFixed(2),
		t.Type,
		t.Category,
		t.Date.UTC().Format("2006-01-02"),
	)
}

// SignatureSet builds the lookup set for a batch of transactions.
func SignatureSet(txs []Transaction) map[string]struct{} {
	set := make(map[string]struct{}, len(txs))
	for _, t := range txs {
		set[Signature(t)] = struct{}{}
	}
	return set
}
