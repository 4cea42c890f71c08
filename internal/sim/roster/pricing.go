package roster

import "math"

// UnitPrice returns the gold price for one copy of the item for this troop,
// after the configured multiplier. Zero when changes are free or in studio
// mode. The quote engine receives this effective price; discount policy lives
// here, not in the delta math.
func (s *Session) UnitPrice(it *Item, t *Troop) int {
	if it == nil {
		return 0
	}
	if !s.tune.PayForEquipment || s.studio {
		return 0
	}
	price := float64(it.Value) * s.tune.EquipmentCostMultiplier
	if price <= 0 {
		return 0
	}
	return int(price)
}

// hoursForEquip estimates the simulated hours a staged equip takes, from the
// effective gold value of the item. Piecewise linear in log10(gold), scaled by
// the tuning modifier, at least one hour.
func (s *Session) hoursForEquip(it *Item, t *Troop) int {
	const unequipBaseline = 100
	gold := unequipBaseline
	if it != nil {
		gold = s.UnitPrice(it, t)
	}

	g := math.Max(1, float64(gold))
	x := math.Log10(g)

	const (
		m1, b1 = 10.0, -18.0
		m2, b2 = 17.16811869688072, -39.504356090642155
		m3, b3 = 48.0, -153.5505602081289
	)

	var raw float64
	switch {
	case g <= 1000:
		raw = m1*x + b1
	case g <= 5000:
		raw = m2*x + b2
	default:
		raw = m3*x + b3
	}

	raw *= s.tune.EquipTimeModifier
	raw /= 5

	h := int(math.Ceil(raw))
	if h < 1 {
		h = 1
	}
	return h
}
