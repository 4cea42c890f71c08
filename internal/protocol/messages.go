package protocol

// Operation names carried by ACT messages.
const (
	OpQuoteEquip     = "QUOTE_EQUIP"
	OpTryEquip       = "TRY_EQUIP"
	OpTryUnequip     = "TRY_UNEQUIP"
	OpRollbackStaged = "ROLLBACK_STAGED"
	OpQuoteDeleteSet = "QUOTE_DELETE_SET"
	OpTryDeleteSet   = "TRY_DELETE_SET"
	OpGetStaged      = "GET_STAGED"
	OpCreateSet      = "CREATE_SET"
	OpToggleCivilian = "TOGGLE_CIVILIAN"
	OpPasteSet       = "PASTE_SET"
	OpStageTraining  = "STAGE_TRAINING"
)

type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Token           string `json:"token,omitempty"`
}

type WelcomeMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	SessionID       string `json:"session_id"`
	Hours           uint64 `json:"hours"`
	Gold            int    `json:"gold"`
	ItemsDigest     string `json:"items_digest"`
	TroopsDigest    string `json:"troops_digest"`
}

type ActMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ReqID           string `json:"req_id,omitempty"`

	Op       string `json:"op"`
	TroopID  string `json:"troop_id,omitempty"`
	SetIndex int    `json:"set_index,omitempty"`
	Slot     string `json:"slot,omitempty"`
	ItemID   string `json:"item_id,omitempty"`
	SkillID  string `json:"skill_id,omitempty"`

	AllowPurchase bool `json:"allow_purchase,omitempty"`
	Civilian      bool `json:"civilian,omitempty"`

	// PASTE_SET source.
	SrcTroopID  string `json:"src_troop_id,omitempty"`
	SrcSetIndex int    `json:"src_set_index,omitempty"`
}

// QuoteBody mirrors the core's non-mutating equip preview.
type QuoteBody struct {
	IsChange        bool `json:"is_change"`
	DeltaAdd        int  `json:"delta_add"`
	DeltaRemove     int  `json:"delta_remove"`
	CopiesFromStock int  `json:"copies_from_stock"`
	CopiesToBuy     int  `json:"copies_to_buy"`
	GoldCost        int  `json:"gold_cost"`
	WouldStage      bool `json:"would_stage"`
}

type StagedBody struct {
	SetIndex  int     `json:"set_index"`
	Slot      string  `json:"slot"`
	ItemID    string  `json:"item_id"`
	Remaining int     `json:"remaining"`
	Carry     float64 `json:"carry"`
}

type ResultMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ReqID           string `json:"req_id,omitempty"`

	Ok       bool   `json:"ok"`
	Code     string `json:"code,omitempty"`
	Staged   bool   `json:"staged,omitempty"`
	Gold     int    `json:"gold"`
	SetIndex int    `json:"set_index,omitempty"`

	Quote   *QuoteBody     `json:"quote,omitempty"`
	Refunds map[string]int `json:"refunds,omitempty"`
	Pending []StagedBody   `json:"pending,omitempty"`
}
