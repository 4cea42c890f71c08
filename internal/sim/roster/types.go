package roster

import "troopforge.sim/internal/protocol"

// Item is the session's resolved view of a catalog item definition.
type Item struct {
	ID         string
	Name       string
	Value      int
	Slots      map[Slot]bool
	Skill      string
	Difficulty int
	Tier       int
	Civilian   bool
	Crafted    bool
	Mount      bool
}

func (it *Item) fits(s Slot) bool {
	return it != nil && it.Slots[s]
}

// EquipmentSet is one complete slot->item assignment. A troop wears exactly
// one set at a time, which is why required copies are a max, not a sum.
type EquipmentSet struct {
	Civilian bool
	Slots    [slotCount]string // item id, "" = empty
}

func (e *EquipmentSet) Get(s Slot) string {
	if s < 0 || s >= slotCount {
		return ""
	}
	return e.Slots[s]
}

func (e *EquipmentSet) set(s Slot, itemID string) {
	if s < 0 || s >= slotCount {
		return
	}
	e.Slots[s] = itemID
}

// Troop is a unit template owning one or more equipment sets.
type Troop struct {
	ID            string
	Name          string
	Tier          int
	CounterpartID string
	Skills        map[string]int
	Sets          []*EquipmentSet
}

func (t *Troop) Set(index int) *EquipmentSet {
	if index < 0 || index >= len(t.Sets) {
		return nil
	}
	return t.Sets[index]
}

func (t *Troop) battleSetCount() int {
	n := 0
	for _, s := range t.Sets {
		if !s.Civilian {
			n++
		}
	}
	return n
}

func (t *Troop) civilianSetCount() int {
	n := 0
	for _, s := range t.Sets {
		if s.Civilian {
			n++
		}
	}
	return n
}

// FailReason explains a rejected mutating operation. All reasons are
// recoverable; the session never leaves partial state behind one.
type FailReason int

const (
	ReasonNone FailReason = iota
	ReasonNotAllowed
	ReasonNotEnoughStock
	ReasonNotEnoughGold
	ReasonNotCivilian
	ReasonInvalid // dangling troop/item/set reference; the operation was a no-op
)

func (r FailReason) Code() string {
	switch r {
	case ReasonNone:
		return ""
	case ReasonNotAllowed:
		return protocol.ErrNotAllowed
	case ReasonNotEnoughStock:
		return protocol.ErrNoStock
	case ReasonNotEnoughGold:
		return protocol.ErrNoGold
	case ReasonNotCivilian:
		return protocol.ErrNotCivilian
	case ReasonInvalid:
		return protocol.ErrInvalidTarget
	}
	return protocol.ErrInternal
}

// LimitReason details why the capability rule rejected an item.
type LimitReason int

const (
	LimitSkill LimitReason = 1 << iota
	LimitMountTier
	LimitTierDifference
)

// EquipQuote is a non-mutating cost/behavior preview for equipping an item.
type EquipQuote struct {
	IsChange        bool
	DeltaAdd        int // physical copies to acquire
	DeltaRemove     int // physical copies freed back to stock
	CopiesFromStock int // of DeltaAdd, taken from stock
	CopiesToBuy     int // of DeltaAdd, purchased with gold
	GoldCost        int
	WouldStage      bool
}

// EquipResult is the outcome of a mutating equip/unequip operation.
type EquipResult struct {
	Ok             bool
	Staged         bool // a staged job was created; the loadout is not yet changed
	Reason         FailReason
	GoldDelta      int
	AddedCopies    int
	RefundedCopies int

	// Commit-time split, carried into the staged job record for rollback.
	stockConsumed int
	bought        int
}

// DeleteSetQuote previews stock refunds for removing an entire set.
type DeleteSetQuote struct {
	Refunds map[string]int // item id -> copies returned to stock
}

type DeleteSetResult struct {
	Ok       bool
	Reason   FailReason
	Refunded map[string]int
}
