package roster

import "sort"

// StockLedger is the global count of physical item copies available without
// purchase. It is the only place copy counts change, and counts never go
// negative: removing more than is present clamps to zero and prunes the entry.
type StockLedger struct {
	byItemID map[string]int
}

func NewStockLedger() *StockLedger {
	return &StockLedger{byItemID: map[string]int{}}
}

func (l *StockLedger) Get(itemID string) int {
	return l.byItemID[itemID]
}

func (l *StockLedger) Has(itemID string) bool {
	return l.byItemID[itemID] > 0
}

// Add applies a delta to an item's count, pruning entries at or below zero.
func (l *StockLedger) Add(itemID string, delta int) {
	if itemID == "" || delta == 0 {
		return
	}
	next := l.byItemID[itemID] + delta
	if next <= 0 {
		delete(l.byItemID, itemID)
		return
	}
	l.byItemID[itemID] = next
}

func (l *StockLedger) Set(itemID string, count int) {
	if itemID == "" {
		return
	}
	if count <= 0 {
		delete(l.byItemID, itemID)
		return
	}
	l.byItemID[itemID] = count
}

// Export returns a copy of the ledger as a plain keyed map.
func (l *StockLedger) Export() map[string]int {
	out := make(map[string]int, len(l.byItemID))
	for k, v := range l.byItemID {
		out[k] = v
	}
	return out
}

// ItemIDs returns stocked item ids in sorted order, for deterministic walks.
func (l *StockLedger) ItemIDs() []string {
	ids := make([]string, 0, len(l.byItemID))
	for id := range l.byItemID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
