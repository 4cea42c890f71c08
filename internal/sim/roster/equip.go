package roster

// TryEquip attempts to set (setIndex, slot) to newItemID, handling
// affordability, stock multiplicity and the staging decision. Stock and gold
// effects happen now; the structural change happens now or at staged
// completion. An empty newItemID delegates to TryUnequip.
func (s *Session) TryEquip(troopID string, setIndex int, slot Slot, newItemID string, allowPurchase bool) EquipResult {
	var res EquipResult

	if newItemID == "" {
		return s.TryUnequip(troopID, setIndex, slot)
	}

	t := s.troops[troopID]
	if t == nil {
		s.logger.Printf("try_equip: unknown troop %q", troopID)
		res.Reason = ReasonInvalid
		return res
	}
	e := t.Set(setIndex)
	if e == nil {
		s.logger.Printf("try_equip: troop %s has no set %d", troopID, setIndex)
		res.Reason = ReasonInvalid
		return res
	}
	newItem := s.items[newItemID]
	if newItem == nil {
		s.logger.Printf("try_equip: unknown item %q", newItemID)
		res.Reason = ReasonInvalid
		return res
	}

	if !newItem.fits(slot) {
		res.Reason = ReasonNotAllowed
		return s.auditEquip(t, setIndex, slot, newItemID, res)
	}
	if e.Civilian && !newItem.Civilian {
		res.Reason = ReasonNotCivilian
		return s.auditEquip(t, setIndex, slot, newItemID, res)
	}
	if ok, _ := s.rules.CanEquip(t, newItem); !ok {
		res.Reason = ReasonNotAllowed
		return s.auditEquip(t, setIndex, slot, newItemID, res)
	}

	if s.studio {
		if e.Get(slot) != newItemID {
			s.applyStructure(t, setIndex, slot, newItemID)
		}
		res.Ok = true
		return res
	}

	// One staged job per (troop, slot, set). Re-staging the same item extends
	// the job; a different target cancels and refunds the old job first.
	if job := s.staging.getEquip(troopID, equipKey(slot, setIndex)); job != nil {
		if job.ItemID == newItemID {
			job.Remaining += s.hoursForEquip(newItem, t)
			res.Ok = true
			res.Staged = true
			return s.auditEquip(t, setIndex, slot, newItemID, res)
		}
		s.rollbackEquipJob(t, job)
	}

	q := s.QuoteEquip(troopID, setIndex, slot, newItemID)
	if !q.IsChange {
		res.Ok = true
		return res
	}

	if reason := s.checkAffordability(q, allowPurchase); reason != ReasonNone {
		res.Reason = reason
		return s.auditEquip(t, setIndex, slot, newItemID, res)
	}

	oldItemID := e.Get(slot)
	s.commitEconomics(q, newItemID, oldItemID, &res)

	if q.WouldStage {
		s.staging.setEquip(troopID, &PendingEquip{
			TroopID:   troopID,
			SetIndex:  setIndex,
			Slot:      slot,
			ItemID:    newItemID,
			OldItemID: oldItemID,
			Remaining: s.hoursForEquip(newItem, t),
			FromStock: res.stockConsumed,
			Bought:    res.bought,
			GoldSpent: -res.GoldDelta,
			Refunded:  res.RefundedCopies,
		})
		res.Ok = true
		res.Staged = true
		return s.auditEquip(t, setIndex, slot, newItemID, res)
	}

	s.applyStructure(t, setIndex, slot, newItemID)
	res.Ok = true
	return s.auditEquip(t, setIndex, slot, newItemID, res)
}

// commitEconomics performs the stock/gold half of an equip: consume copies
// from stock, buy the remainder (a purchased copy is consumed immediately,
// never parked in stock), then return the old item's freed copies to stock.
// Skipped entirely when changes are free.
func (s *Session) commitEconomics(q EquipQuote, newItemID, oldItemID string, res *EquipResult) {
	if !s.tune.PayForEquipment {
		return
	}
	if q.DeltaAdd > 0 {
		s.stock.Add(newItemID, -q.CopiesFromStock)
		if q.CopiesToBuy > 0 && q.GoldCost > 0 {
			s.treasury.Change(-q.GoldCost)
			res.GoldDelta = -q.GoldCost
		}
		res.AddedCopies = q.DeltaAdd
		res.stockConsumed = q.CopiesFromStock
		res.bought = q.CopiesToBuy
	}
	if q.DeltaRemove > 0 && oldItemID != "" {
		s.stock.Add(oldItemID, q.DeltaRemove)
		res.RefundedCopies = q.DeltaRemove
	}
}

// TryUnequip clears a slot. Always instant, never staged; freed copies return
// to stock but gold is never refunded. Clearing the mount slot also clears the
// harness, whose own delta is computed and refunded first.
func (s *Session) TryUnequip(troopID string, setIndex int, slot Slot) EquipResult {
	var res EquipResult

	t := s.troops[troopID]
	if t == nil {
		s.logger.Printf("try_unequip: unknown troop %q", troopID)
		res.Reason = ReasonInvalid
		return res
	}
	e := t.Set(setIndex)
	if e == nil {
		s.logger.Printf("try_unequip: troop %s has no set %d", troopID, setIndex)
		res.Reason = ReasonInvalid
		return res
	}

	// A pending job for this slot already moved stock and gold, including the
	// early refund of the current item. Roll it back first so the removal delta
	// below starts from clean books instead of refunding the same copy twice.
	if job := s.staging.getEquip(troopID, equipKey(slot, setIndex)); job != nil {
		s.rollbackEquipJob(t, job)
	}

	oldItemID := e.Get(slot)
	if oldItemID == "" {
		res.Ok = true
		return res
	}

	if s.studio {
		s.applyStructure(t, setIndex, slot, "")
		res.Ok = true
		return res
	}

	if slot == SlotMount {
		if job := s.staging.getEquip(troopID, equipKey(SlotHarness, setIndex)); job != nil {
			s.rollbackEquipJob(t, job)
		}
		if harnessID := e.Get(SlotHarness); harnessID != "" {
			before := s.pooledMax(t, harnessID)
			after := s.pooledRequiredAfter(t, harnessID, setIndex, SlotHarness, "")
			e.set(SlotHarness, "")
			if d := before - after; d > 0 && s.tune.PayForEquipment {
				s.stock.Add(harnessID, d)
				res.RefundedCopies += d
			}
		}
	}

	before := s.pooledMax(t, oldItemID)
	after := s.pooledRequiredAfter(t, oldItemID, setIndex, slot, "")
	e.set(slot, "")
	if d := before - after; d > 0 && s.tune.PayForEquipment {
		s.stock.Add(oldItemID, d)
		res.RefundedCopies += d
	}

	res.Ok = true
	s.writeAudit(AuditEntry{
		Op: "unequip", TroopID: t.ID, SetIndex: setIndex,
		Slot: slot.String(), ItemID: oldItemID, Ok: true,
	})
	return res
}

// ApplyStructure is the structure-only mutation used by staged-job completion
// and by studio flows. Affordability and ownership bookkeeping must already
// have happened. Clearing the mount slot also clears the harness.
func (s *Session) ApplyStructure(troopID string, setIndex int, slot Slot, itemID string) bool {
	t := s.troops[troopID]
	if t == nil || t.Set(setIndex) == nil {
		return false
	}
	if itemID != "" && s.items[itemID] == nil {
		return false
	}
	s.applyStructure(t, setIndex, slot, itemID)
	return true
}

func (s *Session) applyStructure(t *Troop, setIndex int, slot Slot, itemID string) {
	e := t.Set(setIndex)
	if e == nil {
		return
	}
	if slot == SlotMount && itemID == "" {
		e.set(SlotHarness, "")
	}
	e.set(slot, itemID)
}

func (s *Session) auditEquip(t *Troop, setIndex int, slot Slot, itemID string, res EquipResult) EquipResult {
	s.writeAudit(AuditEntry{
		Op: "equip", TroopID: t.ID, SetIndex: setIndex,
		Slot: slot.String(), ItemID: itemID,
		GoldDelta: res.GoldDelta, Staged: res.Staged,
		Ok: res.Ok, Reason: res.Reason.Code(),
	})
	return res
}
