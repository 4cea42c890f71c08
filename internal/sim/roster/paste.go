package roster

// PasteResult reports the outcome of copying one set's loadout onto another.
// Validation is all-or-nothing: any source item the destination cannot take
// fails the whole paste before anything mutates.
type PasteResult struct {
	Ok        bool
	Reason    FailReason
	Limits    LimitReason
	GoldDelta int
	Staged    int
}

// TryPasteSet copies the source set's items slot by slot onto the destination
// set. The first pass validates every slot and prices the whole paste; the
// aggregate gold cost is charged once up front, so the apply pass never stops
// half-way for lack of funds.
func (s *Session) TryPasteSet(dstTroopID string, dstSetIndex int, srcTroopID string, srcSetIndex int, allowPurchase bool) PasteResult {
	var res PasteResult

	dst := s.troops[dstTroopID]
	src := s.troops[srcTroopID]
	if dst == nil || src == nil {
		res.Reason = ReasonInvalid
		return res
	}
	dstSet := dst.Set(dstSetIndex)
	srcSet := src.Set(srcSetIndex)
	if dstSet == nil || srcSet == nil {
		res.Reason = ReasonInvalid
		return res
	}
	if dst == src && dstSetIndex == srcSetIndex {
		res.Ok = true
		return res
	}

	paying := s.tune.PayForEquipment && !s.studio

	// First pass: validate every source slot. A civilian violation fails
	// immediately; capability violations keep collecting limit flags so the
	// caller sees the full picture.
	for _, slot := range Slots {
		itemID := srcSet.Get(slot)
		if itemID == "" || itemID == dstSet.Get(slot) {
			continue
		}
		item := s.items[itemID]
		if item == nil || !item.fits(slot) {
			res.Reason = ReasonNotAllowed
			return res
		}
		if dstSet.Civilian && !item.Civilian {
			res.Reason = ReasonNotCivilian
			return res
		}
		if ok, limits := s.rules.CanEquip(dst, item); !ok {
			res.Reason = ReasonNotAllowed
			res.Limits |= limits
		}
	}
	if res.Reason != ReasonNone {
		return res
	}

	// Price the whole paste against the current books, then charge it once.
	// Later slots are never re-charged, even where applying an earlier slot
	// shifts their quote.
	costBySlot := map[Slot]int{}
	totalCost := 0
	if paying {
		for _, slot := range Slots {
			itemID := srcSet.Get(slot)
			if itemID == "" || itemID == dstSet.Get(slot) {
				continue
			}
			q := s.QuoteEquip(dstTroopID, dstSetIndex, slot, itemID)
			if !q.IsChange {
				continue
			}
			if q.CopiesToBuy > 0 && !allowPurchase {
				res.Reason = ReasonNotEnoughStock
				return res
			}
			costBySlot[slot] = q.GoldCost
			totalCost += q.GoldCost
		}
		if totalCost > 0 && s.treasury.Balance() < totalCost {
			res.Reason = ReasonNotEnoughGold
			return res
		}
		if totalCost > 0 {
			s.treasury.Change(-totalCost)
			res.GoldDelta = -totalCost
		}
	}

	// Second pass: apply slot by slot. Gold is already paid; this is stock
	// bookkeeping plus the stage-or-apply decision. A pending job on a
	// destination slot is rolled back first so its books do not leak.
	for _, slot := range Slots {
		itemID := srcSet.Get(slot)
		if itemID == "" || itemID == dstSet.Get(slot) {
			continue
		}

		if job := s.staging.getEquip(dstTroopID, equipKey(slot, dstSetIndex)); job != nil {
			s.rollbackEquipJob(dst, job)
		}

		q := s.QuoteEquip(dstTroopID, dstSetIndex, slot, itemID)
		if !q.IsChange {
			continue
		}

		oldItemID := dstSet.Get(slot)
		if paying {
			s.stock.Add(itemID, -q.CopiesFromStock)
			if q.DeltaRemove > 0 && oldItemID != "" {
				s.stock.Add(oldItemID, q.DeltaRemove)
			}
		}

		if q.WouldStage {
			job := &PendingEquip{
				TroopID:   dstTroopID,
				SetIndex:  dstSetIndex,
				Slot:      slot,
				ItemID:    itemID,
				OldItemID: oldItemID,
				Remaining: s.hoursForEquip(s.items[itemID], dst),
			}
			if paying {
				// GoldSpent is the up-front price of this slot, so rolling
				// back every job refunds exactly the total charged.
				job.FromStock = q.CopiesFromStock
				job.Bought = q.CopiesToBuy
				job.GoldSpent = costBySlot[slot]
				job.Refunded = q.DeltaRemove
			}
			s.staging.setEquip(dstTroopID, job)
			res.Staged++
		} else {
			s.applyStructure(dst, dstSetIndex, slot, itemID)
		}
	}

	res.Ok = true
	s.writeAudit(AuditEntry{
		Op: "paste_set", TroopID: dstTroopID, SetIndex: dstSetIndex,
		GoldDelta: res.GoldDelta, Staged: res.Staged > 0, Ok: true,
	})
	return res
}
