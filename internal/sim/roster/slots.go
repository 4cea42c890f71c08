package roster

// Slot is a named equipment position within a set.
type Slot int

const (
	SlotWeapon0 Slot = iota
	SlotWeapon1
	SlotWeapon2
	SlotWeapon3
	SlotHead
	SlotCape
	SlotBody
	SlotGloves
	SlotLegs
	SlotMount
	SlotHarness

	slotCount
)

// Slots lists every slot in canonical order.
var Slots = [...]Slot{
	SlotWeapon0, SlotWeapon1, SlotWeapon2, SlotWeapon3,
	SlotHead, SlotCape, SlotBody, SlotGloves, SlotLegs,
	SlotMount, SlotHarness,
}

var slotNames = [slotCount]string{
	"weapon_0", "weapon_1", "weapon_2", "weapon_3",
	"head", "cape", "body", "gloves", "legs",
	"mount", "harness",
}

func (s Slot) String() string {
	if s < 0 || s >= slotCount {
		return "invalid"
	}
	return slotNames[s]
}

func ParseSlot(name string) (Slot, bool) {
	for i, n := range slotNames {
		if n == name {
			return Slot(i), true
		}
	}
	return 0, false
}
