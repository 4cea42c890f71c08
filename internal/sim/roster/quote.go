package roster

// QuoteEquip computes a non-mutating preview for setting (setIndex, slot) to
// newItemID ("" = unequip): multiplicity deltas, stock split, gold cost, and
// whether the change would be staged. Callers may quote as often as they like;
// the mutating flows always re-quote before committing.
func (s *Session) QuoteEquip(troopID string, setIndex int, slot Slot, newItemID string) EquipQuote {
	var q EquipQuote

	t := s.troops[troopID]
	if t == nil {
		return q
	}
	e := t.Set(setIndex)
	if e == nil {
		return q
	}
	if newItemID != "" && s.items[newItemID] == nil {
		return q
	}
	oldItemID := e.Get(slot)

	q.IsChange = oldItemID != newItemID
	if !q.IsChange {
		return q
	}

	beforeOld := 0
	afterOld := 0
	if oldItemID != "" {
		beforeOld = s.pooledMax(t, oldItemID)
		afterOld = s.pooledRequiredAfter(t, oldItemID, setIndex, slot, newItemID)
	}

	beforeNew := 0
	afterNew := 0
	if newItemID != "" {
		beforeNew = s.pooledMax(t, newItemID)
		afterNew = s.pooledRequiredAfter(t, newItemID, setIndex, slot, newItemID)
	}

	if d := beforeOld - afterOld; d > 0 {
		q.DeltaRemove = d
	}
	if d := afterNew - beforeNew; d > 0 {
		q.DeltaAdd = d
	}

	stock := s.stock.Get(newItemID)
	q.CopiesFromStock = q.DeltaAdd
	if stock < q.CopiesFromStock {
		q.CopiesFromStock = stock
	}
	q.CopiesToBuy = q.DeltaAdd - q.CopiesFromStock

	q.GoldCost = s.UnitPrice(s.items[newItemID], t) * q.CopiesToBuy

	// Only changes that acquire copies take time; a pure removal is instant.
	q.WouldStage = s.tune.EquipTakesTime && !s.studio && q.DeltaAdd > 0

	return q
}

// QuoteDeleteSet previews the refunds of removing an entire set: item id ->
// copies whose global requirement drops when this set disappears.
func (s *Session) QuoteDeleteSet(troopID string, setIndex int) DeleteSetQuote {
	q := DeleteSetQuote{Refunds: map[string]int{}}
	t := s.troops[troopID]
	if t == nil || t.Set(setIndex) == nil {
		return q
	}
	for itemID := range t.RequiredCopies() {
		// Pool with the counterpart: copies still required over there are not
		// freed by deleting this set.
		before := s.pooledMax(t, itemID)
		after := t.MaxOverOtherSets(itemID, setIndex)
		if other := s.counterpart(t); other != nil {
			if m := other.MaxCountPerSet(itemID); m > after {
				after = m
			}
		}
		if before > after {
			q.Refunds[itemID] = before - after
		}
	}
	return q
}

func (s *Session) checkAffordability(q EquipQuote, allowPurchase bool) FailReason {
	if q.DeltaAdd <= 0 {
		return ReasonNone
	}
	if !s.tune.PayForEquipment {
		return ReasonNone
	}
	if q.CopiesFromStock < q.DeltaAdd && !allowPurchase {
		return ReasonNotEnoughStock
	}
	if q.CopiesToBuy > 0 && s.treasury.Balance() < q.GoldCost {
		return ReasonNotEnoughGold
	}
	return ReasonNone
}
