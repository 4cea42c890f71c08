package roster

import (
	"fmt"
	"log"
	"sort"

	"troopforge.sim/internal/sim/catalogs"
	"troopforge.sim/internal/sim/tuning"
)

// Currency is the player account the core debits and credits. The balance is
// owned externally; the core only requests changes.
type Currency interface {
	Balance() int
	Change(delta int)
}

// Treasury is the default in-memory currency account.
type Treasury struct {
	gold int
}

func NewTreasury(gold int) *Treasury { return &Treasury{gold: gold} }
func (t *Treasury) Balance() int { return t.gold }
func (t *Treasury) Change(delta int) { t.gold += delta }

// AuditEntry records one committed (or rejected) mutating operation.
type AuditEntry struct {
	Hour      uint64 `json:"hour"`
	Op        string `json:"op"`
	TroopID   string `json:"troop_id"`
	SetIndex  int    `json:"set_index"`
	Slot      string `json:"slot,omitempty"`
	ItemID    string `json:"item_id,omitempty"`
	SkillID   string `json:"skill_id,omitempty"`
	GoldDelta int    `json:"gold_delta,omitempty"`
	Staged    bool   `json:"staged,omitempty"`
	Ok        bool   `json:"ok"`
	Reason    string `json:"reason,omitempty"`
}

// AuditSink receives committed operation records. May be nil on a session.
type AuditSink interface {
	WriteAudit(AuditEntry) error
}

// SessionConfig assembles a session's collaborators. Rules and Currency fall
// back to defaults built from Tuning when nil.
type SessionConfig struct {
	ID       string
	Catalogs *catalogs.Catalogs
	Tuning   tuning.Tuning
	Currency Currency
	Rules    CapabilityRule
	Audit    AuditSink
	Logger   *log.Logger
}

// Session owns all mutable simulation state: troops and their loadouts, the
// stock ledger, the staging store and the elapsed-hours counter. It is
// single-threaded; every mutation goes through its methods, and callers must
// not share it across goroutines.
type Session struct {
	id   string
	tune tuning.Tuning

	items  map[string]*Item
	troops map[string]*Troop

	stock    *StockLedger
	treasury Currency
	rules    CapabilityRule
	staging  *StagingStore

	hours  uint64
	studio bool

	audit  AuditSink
	logger *log.Logger
}

func NewSession(cfg SessionConfig) (*Session, error) {
	if cfg.Catalogs == nil {
		return nil, fmt.Errorf("session: nil catalogs")
	}
	s := &Session{
		id:      cfg.ID,
		tune:    cfg.Tuning,
		items:   map[string]*Item{},
		troops:  map[string]*Troop{},
		stock:   NewStockLedger(),
		staging: NewStagingStore(),
		audit:   cfg.Audit,
		logger:  cfg.Logger,
	}
	if s.id == "" {
		s.id = "session_1"
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	s.treasury = cfg.Currency
	if s.treasury == nil {
		s.treasury = NewTreasury(cfg.Tuning.StartingGold)
	}
	s.rules = cfg.Rules
	if s.rules == nil {
		s.rules = NewRuleSet(cfg.Tuning)
	}

	for _, id := range cfg.Catalogs.Items.Palette {
		it, err := resolveItem(cfg.Catalogs.Items.Defs[id])
		if err != nil {
			return nil, err
		}
		s.items[id] = it
	}
	for _, id := range cfg.Catalogs.Troops.Palette {
		t, err := resolveTroop(cfg.Catalogs.Troops.Defs[id], s.items)
		if err != nil {
			return nil, err
		}
		t.normalize()
		s.troops[id] = t
	}
	return s, nil
}

func resolveItem(d catalogs.ItemDef) (*Item, error) {
	it := &Item{
		ID:         d.ID,
		Name:       d.Name,
		Value:      d.Value,
		Slots:      map[Slot]bool{},
		Skill:      d.Skill,
		Difficulty: d.Difficulty,
		Tier:       d.Tier,
		Civilian:   d.Civilian,
		Crafted:    d.Crafted,
		Mount:      d.Mount,
	}
	for _, name := range d.Slots {
		slot, ok := ParseSlot(name)
		if !ok {
			return nil, fmt.Errorf("item %s: unknown slot %q", d.ID, name)
		}
		it.Slots[slot] = true
	}
	return it, nil
}

func resolveTroop(d catalogs.TroopDef, items map[string]*Item) (*Troop, error) {
	t := &Troop{
		ID:            d.ID,
		Name:          d.Name,
		Tier:          d.Tier,
		CounterpartID: d.CounterpartID,
		Skills:        map[string]int{},
	}
	for k, v := range d.Skills {
		t.Skills[k] = v
	}
	for i, sd := range d.Sets {
		set := &EquipmentSet{Civilian: sd.Civilian}
		for name, itemID := range sd.Slots {
			slot, ok := ParseSlot(name)
			if !ok {
				return nil, fmt.Errorf("troop %s set %d: unknown slot %q", d.ID, i, name)
			}
			if itemID == "" {
				continue
			}
			if _, ok := items[itemID]; !ok {
				return nil, fmt.Errorf("troop %s set %d: unknown item %q", d.ID, i, itemID)
			}
			set.Slots[slot] = itemID
		}
		t.Sets = append(t.Sets, set)
	}
	return t, nil
}

func (s *Session) ID() string { return s.id }
func (s *Session) Hours() uint64 { return s.hours }
func (s *Session) Gold() int { return s.treasury.Balance() }
func (s *Session) Stock() *StockLedger { return s.stock }

// StudioMode toggles the unrestricted editing mode: structural changes only,
// zero stock/gold effect, never staged.
func (s *Session) StudioMode() bool { return s.studio }
func (s *Session) SetStudioMode(on bool) { s.studio = on }

func (s *Session) Item(id string) *Item { return s.items[id] }
func (s *Session) Troop(id string) *Troop { return s.troops[id] }

// TroopIDs returns all troop ids in sorted order.
func (s *Session) TroopIDs() []string {
	ids := make([]string, 0, len(s.troops))
	for id := range s.troops {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// counterpart resolves the troop linked to draw from the same item pool.
func (s *Session) counterpart(t *Troop) *Troop {
	if t == nil || t.CounterpartID == "" {
		return nil
	}
	return s.troops[t.CounterpartID]
}

// pooledMax is the global requirement for an item today: the troop's max
// pooled with its counterpart's max. Never a sum.
func (s *Session) pooledMax(t *Troop, itemID string) int {
	max := t.MaxCountPerSet(itemID)
	if other := s.counterpart(t); other != nil {
		if m := other.MaxCountPerSet(itemID); m > max {
			max = m
		}
	}
	return max
}

// pooledRequiredAfter is the global requirement after a hypothetical change on
// this troop. The counterpart is unchanged, so its current max is pooled in.
func (s *Session) pooledRequiredAfter(t *Troop, itemID string, setIndex int, slot Slot, newItemID string) int {
	after := t.RequiredAfter(itemID, setIndex, slot, newItemID)
	if other := s.counterpart(t); other != nil {
		if m := other.MaxCountPerSet(itemID); m > after {
			after = m
		}
	}
	return after
}

func (s *Session) writeAudit(e AuditEntry) {
	if s.audit == nil {
		return
	}
	e.Hour = s.hours
	if err := s.audit.WriteAudit(e); err != nil {
		s.logger.Printf("audit write: %v", err)
	}
}
