package roster

// Counting and what-if helpers over a troop's sets. Only one set is worn at a
// time, so the physical requirement for an item is the max per-set count,
// never the sum across sets.

// CountInSet returns how many slots of one set hold the item.
func (t *Troop) CountInSet(itemID string, setIndex int) int {
	if itemID == "" {
		return 0
	}
	e := t.Set(setIndex)
	if e == nil {
		return 0
	}
	n := 0
	for _, s := range Slots {
		if e.Get(s) == itemID {
			n++
		}
	}
	return n
}

// MaxCountPerSet returns the troop's required copies of an item today.
func (t *Troop) MaxCountPerSet(itemID string) int {
	if itemID == "" {
		return 0
	}
	max := 0
	for i := range t.Sets {
		if c := t.CountInSet(itemID, i); c > max {
			max = c
		}
	}
	return max
}

// MaxOverOtherSets is MaxCountPerSet excluding one set.
func (t *Troop) MaxOverOtherSets(itemID string, excludingSet int) int {
	if itemID == "" {
		return 0
	}
	max := 0
	for i := range t.Sets {
		if i == excludingSet {
			continue
		}
		if c := t.CountInSet(itemID, i); c > max {
			max = c
		}
	}
	return max
}

// RequiredAfter returns the troop's required copies of an item after a
// hypothetical replace of (setIndex, slot) with newItemID. Nothing is mutated.
func (t *Troop) RequiredAfter(itemID string, setIndex int, slot Slot, newItemID string) int {
	if itemID == "" {
		return 0
	}
	e := t.Set(setIndex)
	current := ""
	if e != nil {
		current = e.Get(slot)
	}

	countThisSet := t.CountInSet(itemID, setIndex)
	if current == itemID {
		countThisSet--
	}
	if newItemID == itemID {
		countThisSet++
	}

	otherMax := t.MaxOverOtherSets(itemID, setIndex)
	if countThisSet > otherMax {
		return countThisSet
	}
	return otherMax
}

// RequiredCopies returns item id -> required copies (max per set), the
// troop-local requirement before counterpart pooling.
func (t *Troop) RequiredCopies() map[string]int {
	out := map[string]int{}
	for i := range t.Sets {
		perSet := map[string]int{}
		for _, s := range Slots {
			id := t.Sets[i].Get(s)
			if id == "" {
				continue
			}
			perSet[id]++
		}
		for id, c := range perSet {
			if c > out[id] {
				out[id] = c
			}
		}
	}
	return out
}

// PreviewDeleteSet returns, per item appearing anywhere on the troop, how many
// copies the requirement would drop by if the set were removed.
func (t *Troop) PreviewDeleteSet(setIndex int) map[string]int {
	drops := map[string]int{}
	for itemID := range t.RequiredCopies() {
		before := t.MaxCountPerSet(itemID)
		after := t.MaxOverOtherSets(itemID, setIndex)
		if before > after {
			drops[itemID] = before - after
		}
	}
	return drops
}

// normalize keeps at least one battle and one civilian set and moves the first
// battle set to index 0.
func (t *Troop) normalize() {
	if t.battleSetCount() == 0 {
		t.Sets = append(t.Sets, &EquipmentSet{})
	}
	if t.civilianSetCount() == 0 {
		t.Sets = append(t.Sets, &EquipmentSet{Civilian: true})
	}
	firstBattle := -1
	for i, s := range t.Sets {
		if !s.Civilian {
			firstBattle = i
			break
		}
	}
	if firstBattle > 0 {
		battle := t.Sets[firstBattle]
		t.Sets = append(t.Sets[:firstBattle], t.Sets[firstBattle+1:]...)
		t.Sets = append([]*EquipmentSet{battle}, t.Sets...)
	}
}
