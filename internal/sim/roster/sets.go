package roster

// CreateSet appends an empty battle or civilian set and returns its index.
func (s *Session) CreateSet(troopID string, civilian bool) (int, bool) {
	t := s.troops[troopID]
	if t == nil {
		s.logger.Printf("create_set: unknown troop %q", troopID)
		return 0, false
	}
	t.Sets = append(t.Sets, &EquipmentSet{Civilian: civilian})
	return len(t.Sets) - 1, true
}

// ToggleCivilian flips a set's civilian flag, keeping at least one set of
// each kind. The first set is always a battle set and cannot be toggled.
func (s *Session) ToggleCivilian(troopID string, setIndex int, makeCivilian bool) bool {
	t := s.troops[troopID]
	if t == nil {
		return false
	}
	if makeCivilian && setIndex == 0 {
		return false
	}
	e := t.Set(setIndex)
	if e == nil || e.Civilian == makeCivilian {
		return false
	}
	if makeCivilian && t.battleSetCount() <= 1 {
		return false
	}
	if !makeCivilian && t.civilianSetCount() <= 1 {
		return false
	}
	e.Civilian = makeCivilian
	return true
}

// TryDeleteSet removes an entire set, refunding only the copies whose global
// requirement drops because the set disappears. Pending equip jobs targeting
// the set are rolled back first; jobs on later sets are reindexed so their
// keys keep pointing at the same physical set.
func (s *Session) TryDeleteSet(troopID string, setIndex int) DeleteSetResult {
	res := DeleteSetResult{Refunded: map[string]int{}}

	t := s.troops[troopID]
	if t == nil {
		res.Reason = ReasonInvalid
		return res
	}
	e := t.Set(setIndex)
	if e == nil {
		res.Reason = ReasonInvalid
		return res
	}
	if e.Civilian && t.civilianSetCount() <= 1 {
		res.Reason = ReasonNotAllowed
		return res
	}
	if !e.Civilian && t.battleSetCount() <= 1 {
		res.Reason = ReasonNotAllowed
		return res
	}

	for _, key := range s.staging.equipKeysFor(troopID) {
		job := s.staging.getEquip(troopID, key)
		if job != nil && job.SetIndex == setIndex {
			s.rollbackEquipJob(t, job)
		}
	}

	quote := s.QuoteDeleteSet(troopID, setIndex)
	if s.tune.PayForEquipment && !s.studio {
		for itemID, copies := range quote.Refunds {
			s.stock.Add(itemID, copies)
			res.Refunded[itemID] = copies
		}
	}

	t.Sets = append(t.Sets[:setIndex], t.Sets[setIndex+1:]...)
	s.reindexEquipJobsAfterDelete(troopID, setIndex)

	res.Ok = true
	s.writeAudit(AuditEntry{
		Op: "delete_set", TroopID: troopID, SetIndex: setIndex, Ok: true,
	})
	return res
}

// reindexEquipJobsAfterDelete shifts pending-job set indices above the removed
// one down by one, rekeying the entries.
func (s *Session) reindexEquipJobsAfterDelete(troopID string, removed int) {
	var moved []*PendingEquip
	for _, key := range s.staging.equipKeysFor(troopID) {
		job := s.staging.getEquip(troopID, key)
		if job != nil && job.SetIndex > removed {
			s.staging.removeEquip(troopID, key)
			job.SetIndex--
			moved = append(moved, job)
		}
	}
	for _, job := range moved {
		s.staging.setEquip(troopID, job)
	}
}
