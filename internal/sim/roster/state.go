package roster

// StateV1 is the serializable form of a session: plain maps and slices keyed
// by catalog ids, so a state survives catalog edits between runs. Entries that
// no longer resolve are dropped on restore with a log line.
type StateV1 struct {
	Hours uint64         `json:"hours"`
	Gold  int            `json:"gold"`
	Stock map[string]int `json:"stock"`

	Troops map[string]TroopStateV1 `json:"troops"`

	PendingEquip []PendingEquipV1 `json:"pending_equip,omitempty"`
	PendingTrain []PendingTrainV1 `json:"pending_train,omitempty"`
}

type TroopStateV1 struct {
	Skills map[string]int `json:"skills,omitempty"`
	Sets   []SetStateV1   `json:"sets"`
}

type SetStateV1 struct {
	Civilian bool              `json:"civilian,omitempty"`
	Slots    map[string]string `json:"slots,omitempty"` // slot name -> item id
}

type PendingEquipV1 struct {
	TroopID   string  `json:"troop_id"`
	SetIndex  int     `json:"set_index"`
	Slot      string  `json:"slot"`
	ItemID    string  `json:"item_id"`
	OldItemID string  `json:"old_item_id,omitempty"`
	Remaining int     `json:"remaining"`
	Carry     float64 `json:"carry,omitempty"`
	FromStock int     `json:"from_stock,omitempty"`
	Bought    int     `json:"bought,omitempty"`
	GoldSpent int     `json:"gold_spent,omitempty"`
	Refunded  int     `json:"refunded,omitempty"`
}

type PendingTrainV1 struct {
	TroopID         string  `json:"troop_id"`
	SkillID         string  `json:"skill_id"`
	Remaining       int     `json:"remaining"`
	PointsRemaining int     `json:"points_remaining"`
	PointsPerHour   float64 `json:"points_per_hour"`
	Carry           float64 `json:"carry,omitempty"`
}

// ExportState captures the full mutable state of the session.
func (s *Session) ExportState() *StateV1 {
	st := &StateV1{
		Hours:  s.hours,
		Gold:   s.treasury.Balance(),
		Stock:  s.stock.Export(),
		Troops: map[string]TroopStateV1{},
	}
	for _, id := range s.TroopIDs() {
		t := s.troops[id]
		ts := TroopStateV1{Skills: map[string]int{}}
		for k, v := range t.Skills {
			ts.Skills[k] = v
		}
		for _, e := range t.Sets {
			ss := SetStateV1{Civilian: e.Civilian, Slots: map[string]string{}}
			for _, slot := range Slots {
				if itemID := e.Get(slot); itemID != "" {
					ss.Slots[slot.String()] = itemID
				}
			}
			ts.Sets = append(ts.Sets, ss)
		}
		st.Troops[id] = ts
	}
	for _, troopID := range s.staging.troopIDsWithEquip() {
		for _, key := range s.staging.equipKeysFor(troopID) {
			job := s.staging.getEquip(troopID, key)
			st.PendingEquip = append(st.PendingEquip, PendingEquipV1{
				TroopID:   job.TroopID,
				SetIndex:  job.SetIndex,
				Slot:      job.Slot.String(),
				ItemID:    job.ItemID,
				OldItemID: job.OldItemID,
				Remaining: job.Remaining,
				Carry:     job.Carry,
				FromStock: job.FromStock,
				Bought:    job.Bought,
				GoldSpent: job.GoldSpent,
				Refunded:  job.Refunded,
			})
		}
	}
	for _, troopID := range s.staging.troopIDsWithTrain() {
		for _, skillID := range s.staging.trainSkillsFor(troopID) {
			job := s.staging.getTrain(troopID, skillID)
			st.PendingTrain = append(st.PendingTrain, PendingTrainV1{
				TroopID:         job.TroopID,
				SkillID:         job.SkillID,
				Remaining:       job.Remaining,
				PointsRemaining: job.PointsRemaining,
				PointsPerHour:   job.PointsPerHour,
				Carry:           job.Carry,
			})
		}
	}
	return st
}

// RestoreState replaces the session's mutable state with st. Troops, items and
// slots that no longer exist in the catalogs are dropped, not errors: a state
// must stay loadable across catalog edits.
func (s *Session) RestoreState(st *StateV1) {
	s.hours = st.Hours
	s.treasury.Change(st.Gold - s.treasury.Balance())
	s.stock = NewStockLedger()
	for itemID, n := range st.Stock {
		if s.items[itemID] == nil {
			s.logger.Printf("restore: dropping stock of unknown item %q", itemID)
			continue
		}
		s.stock.Add(itemID, n)
	}

	for troopID, ts := range st.Troops {
		t := s.troops[troopID]
		if t == nil {
			s.logger.Printf("restore: dropping state for unknown troop %q", troopID)
			continue
		}
		t.Skills = map[string]int{}
		for k, v := range ts.Skills {
			t.Skills[k] = v
		}
		t.Sets = nil
		for _, ss := range ts.Sets {
			e := &EquipmentSet{Civilian: ss.Civilian}
			for name, itemID := range ss.Slots {
				slot, ok := ParseSlot(name)
				if !ok {
					s.logger.Printf("restore: troop %s: dropping unknown slot %q", troopID, name)
					continue
				}
				if s.items[itemID] == nil {
					s.logger.Printf("restore: troop %s: dropping unknown item %q", troopID, itemID)
					continue
				}
				e.set(slot, itemID)
			}
			t.Sets = append(t.Sets, e)
		}
		t.normalize()
	}

	s.staging = NewStagingStore()
	for _, j := range st.PendingEquip {
		t := s.troops[j.TroopID]
		slot, slotOK := ParseSlot(j.Slot)
		if t == nil || !slotOK || t.Set(j.SetIndex) == nil || s.items[j.ItemID] == nil {
			s.logger.Printf("restore: dropping stale equip job %s/%s", j.TroopID, j.ItemID)
			continue
		}
		s.staging.setEquip(j.TroopID, &PendingEquip{
			TroopID:   j.TroopID,
			SetIndex:  j.SetIndex,
			Slot:      slot,
			ItemID:    j.ItemID,
			OldItemID: j.OldItemID,
			Remaining: j.Remaining,
			Carry:     j.Carry,
			FromStock: j.FromStock,
			Bought:    j.Bought,
			GoldSpent: j.GoldSpent,
			Refunded:  j.Refunded,
		})
	}
	for _, j := range st.PendingTrain {
		if s.troops[j.TroopID] == nil {
			s.logger.Printf("restore: dropping stale train job %s/%s", j.TroopID, j.SkillID)
			continue
		}
		s.staging.setTrain(j.TroopID, &PendingTrain{
			TroopID:         j.TroopID,
			SkillID:         j.SkillID,
			Remaining:       j.Remaining,
			PointsRemaining: j.PointsRemaining,
			PointsPerHour:   j.PointsPerHour,
			Carry:           j.Carry,
		})
	}
}
