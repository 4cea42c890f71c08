package host

import (
	"context"
	"log"
	"time"

	"troopforge.sim/internal/protocol"
	"troopforge.sim/internal/sim/roster"
)

// Request is one ACT delivered to the host loop. Resp receives exactly one
// RESULT; the channel must be buffered so the loop never blocks on a slow
// client.
type Request struct {
	Act  protocol.ActMsg
	Resp chan protocol.ResultMsg
}

type Config struct {
	Session *roster.Session
	Logger  *log.Logger

	// HoursPerMinute maps wall-clock time to simulated hours. Zero disables
	// the clock; hours then only advance via AdvanceHours requests in tests.
	HoursPerMinute int

	// SnapshotEveryHours triggers OnSnapshot on the hour boundary. Zero
	// disables periodic snapshots.
	SnapshotEveryHours int
	OnSnapshot         func(state *roster.StateV1, hours uint64)
}

// Host owns the session and is its only caller once Run starts. All transport
// goroutines talk to it through the inbox; the loop applies one request at a
// time, so the single-threaded session never needs a lock.
type Host struct {
	cfg       Config
	session   *roster.Session
	logger    *log.Logger
	inbox     chan Request
	welcomeCh chan welcomeReq
}

type welcomeReq struct {
	itemsDigest  string
	troopsDigest string
	resp         chan protocol.WelcomeMsg
}

func New(cfg Config) *Host {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Host{
		cfg:       cfg,
		session:   cfg.Session,
		logger:    logger,
		inbox:     make(chan Request, 256),
		welcomeCh: make(chan welcomeReq, 16),
	}
}

func (h *Host) Inbox() chan<- Request { return h.inbox }

// AskWelcome builds the handshake payload inside the loop goroutine, so the
// session is never read concurrently with the clock.
func (h *Host) AskWelcome(ctx context.Context, itemsDigest, troopsDigest string) (protocol.WelcomeMsg, error) {
	req := welcomeReq{
		itemsDigest:  itemsDigest,
		troopsDigest: troopsDigest,
		resp:         make(chan protocol.WelcomeMsg, 1),
	}
	select {
	case h.welcomeCh <- req:
	case <-ctx.Done():
		return protocol.WelcomeMsg{}, ctx.Err()
	}
	select {
	case msg := <-req.resp:
		return msg, nil
	case <-ctx.Done():
		return protocol.WelcomeMsg{}, ctx.Err()
	}
}

func (h *Host) welcome(itemsDigest, troopsDigest string) protocol.WelcomeMsg {
	return protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		SessionID:       h.session.ID(),
		Hours:           h.session.Hours(),
		Gold:            h.session.Gold(),
		ItemsDigest:     itemsDigest,
		TroopsDigest:    troopsDigest,
	}
}

// Ask sends a request and waits for its result.
func (h *Host) Ask(ctx context.Context, act protocol.ActMsg) (protocol.ResultMsg, error) {
	req := Request{Act: act, Resp: make(chan protocol.ResultMsg, 1)}
	select {
	case h.inbox <- req:
	case <-ctx.Done():
		return protocol.ResultMsg{}, ctx.Err()
	}
	select {
	case res := <-req.Resp:
		return res, nil
	case <-ctx.Done():
		return protocol.ResultMsg{}, ctx.Err()
	}
}

// Run processes requests and the simulated clock until ctx is cancelled.
func (h *Host) Run(ctx context.Context) {
	var tickC <-chan time.Time
	if h.cfg.HoursPerMinute > 0 {
		ticker := time.NewTicker(time.Minute / time.Duration(h.cfg.HoursPerMinute))
		defer ticker.Stop()
		tickC = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-tickC:
			h.advanceHour()
		case req := <-h.welcomeCh:
			req.resp <- h.welcome(req.itemsDigest, req.troopsDigest)
		case req := <-h.inbox:
			res := h.dispatch(req.Act)
			select {
			case req.Resp <- res:
			default:
				h.logger.Printf("host: dropped result for %s (full resp channel)", req.Act.Op)
			}
		}
	}
}

func (h *Host) advanceHour() {
	h.session.AdvanceHours(1)
	every := uint64(h.cfg.SnapshotEveryHours)
	if every > 0 && h.cfg.OnSnapshot != nil && h.session.Hours()%every == 0 {
		h.cfg.OnSnapshot(h.session.ExportState(), h.session.Hours())
	}
}

func (h *Host) dispatch(act protocol.ActMsg) protocol.ResultMsg {
	res := protocol.ResultMsg{
		Type:            protocol.TypeResult,
		ProtocolVersion: protocol.Version,
		ReqID:           act.ReqID,
	}

	slot, slotOK := roster.ParseSlot(act.Slot)
	needsSlot := false
	switch act.Op {
	case protocol.OpQuoteEquip, protocol.OpTryEquip, protocol.OpTryUnequip, protocol.OpRollbackStaged:
		needsSlot = true
	}
	if needsSlot && !slotOK {
		res.Code = protocol.ErrProtoBadRequest
		res.Gold = h.session.Gold()
		return res
	}

	switch act.Op {
	case protocol.OpQuoteEquip:
		q := h.session.QuoteEquip(act.TroopID, act.SetIndex, slot, act.ItemID)
		res.Ok = true
		res.Quote = &protocol.QuoteBody{
			IsChange:        q.IsChange,
			DeltaAdd:        q.DeltaAdd,
			DeltaRemove:     q.DeltaRemove,
			CopiesFromStock: q.CopiesFromStock,
			CopiesToBuy:     q.CopiesToBuy,
			GoldCost:        q.GoldCost,
			WouldStage:      q.WouldStage,
		}

	case protocol.OpTryEquip:
		r := h.session.TryEquip(act.TroopID, act.SetIndex, slot, act.ItemID, act.AllowPurchase)
		res.Ok = r.Ok
		res.Code = r.Reason.Code()
		res.Staged = r.Staged

	case protocol.OpTryUnequip:
		r := h.session.TryUnequip(act.TroopID, act.SetIndex, slot)
		res.Ok = r.Ok
		res.Code = r.Reason.Code()

	case protocol.OpRollbackStaged:
		if h.session.RollbackStaged(act.TroopID, act.SetIndex, slot) {
			res.Ok = true
		} else {
			res.Code = protocol.ErrInvalidTarget
		}

	case protocol.OpQuoteDeleteSet:
		q := h.session.QuoteDeleteSet(act.TroopID, act.SetIndex)
		res.Ok = true
		res.Refunds = q.Refunds

	case protocol.OpTryDeleteSet:
		r := h.session.TryDeleteSet(act.TroopID, act.SetIndex)
		res.Ok = r.Ok
		res.Code = r.Reason.Code()
		res.Refunds = r.Refunded

	case protocol.OpGetStaged:
		res.Ok = true
		for _, job := range h.session.StagedEquips(act.TroopID) {
			res.Pending = append(res.Pending, protocol.StagedBody{
				SetIndex:  job.SetIndex,
				Slot:      job.Slot.String(),
				ItemID:    job.ItemID,
				Remaining: job.Remaining,
				Carry:     job.Carry,
			})
		}

	case protocol.OpCreateSet:
		idx, ok := h.session.CreateSet(act.TroopID, act.Civilian)
		res.Ok = ok
		res.SetIndex = idx
		if !ok {
			res.Code = protocol.ErrInvalidTarget
		}

	case protocol.OpToggleCivilian:
		if h.session.ToggleCivilian(act.TroopID, act.SetIndex, act.Civilian) {
			res.Ok = true
		} else {
			res.Code = protocol.ErrNotAllowed
		}

	case protocol.OpPasteSet:
		r := h.session.TryPasteSet(act.TroopID, act.SetIndex, act.SrcTroopID, act.SrcSetIndex, act.AllowPurchase)
		res.Ok = r.Ok
		res.Code = r.Reason.Code()

	case protocol.OpStageTraining:
		if h.session.StageTraining(act.TroopID, act.SkillID) {
			res.Ok = true
		} else {
			res.Code = protocol.ErrInvalidTarget
		}

	default:
		res.Code = protocol.ErrBadRequest
	}

	res.Gold = h.session.Gold()
	return res
}
