package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"troopforge.sim/internal/protocol"
	"troopforge.sim/internal/sim/catalogs"
	"troopforge.sim/internal/sim/host"
	"troopforge.sim/internal/sim/roster"
	"troopforge.sim/internal/sim/tuning"
)

func startTestServer(t *testing.T) (*httptest.Server, func()) {
	t.Helper()
	cats, err := catalogs.FromDefs(
		[]catalogs.ItemDef{
			{ID: "lance", Name: "Lance", Value: 100, Slots: []string{"weapon_0"}, Skill: "polearm", Difficulty: 40, Tier: 3},
		},
		[]catalogs.TroopDef{
			{ID: "footman", Name: "Footman", Tier: 3, Skills: map[string]int{"polearm": 80},
				Sets: []catalogs.SetDef{{}, {Civilian: true}}},
		},
	)
	if err != nil {
		t.Fatalf("FromDefs: %v", err)
	}
	tune := tuning.Defaults()
	tune.EquipTakesTime = false
	sess, err := roster.NewSession(roster.SessionConfig{Catalogs: cats, Tuning: tune})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	h := host.New(host.Config{Session: sess})
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)

	srv := httptest.NewServer(NewServer(h, nil, cats.Items.Digest, cats.Troops.Digest, nil).Handler())
	return srv, func() {
		srv.Close()
		cancel()
	}
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func TestHandshakeAndActRoundTrip(t *testing.T) {
	srv, stop := startTestServer(t)
	defer stop()

	conn := dial(t, srv)
	defer conn.Close()

	if err := conn.WriteJSON(protocol.HelloMsg{Type: protocol.TypeHello, ProtocolVersion: protocol.Version}); err != nil {
		t.Fatalf("write HELLO: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var welcome protocol.WelcomeMsg
	if err := conn.ReadJSON(&welcome); err != nil {
		t.Fatalf("read WELCOME: %v", err)
	}
	if welcome.Type != protocol.TypeWelcome || welcome.SessionID == "" {
		t.Fatalf("welcome = %+v", welcome)
	}

	act := protocol.ActMsg{
		Type:            protocol.TypeAct,
		ProtocolVersion: protocol.Version,
		ReqID:           "r1",
		Op:              protocol.OpTryEquip,
		TroopID:         "footman",
		Slot:            "weapon_0",
		ItemID:          "lance",
		AllowPurchase:   true,
	}
	if err := conn.WriteJSON(act); err != nil {
		t.Fatalf("write ACT: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read RESULT: %v", err)
	}
	var res protocol.ResultMsg
	if err := json.Unmarshal(raw, &res); err != nil {
		t.Fatalf("decode RESULT: %v", err)
	}
	if !res.Ok || res.ReqID != "r1" || res.Gold != welcome.Gold-100 {
		t.Fatalf("result = %+v", res)
	}
}

func TestHandshakeRejectsNonHelloFirstFrame(t *testing.T) {
	srv, stop := startTestServer(t)
	defer stop()

	conn := dial(t, srv)
	defer conn.Close()

	if err := conn.WriteJSON(protocol.ActMsg{Type: protocol.TypeAct, ProtocolVersion: protocol.Version, Op: protocol.OpGetStaged}); err != nil {
		t.Fatalf("write: %v", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatalf("server must close the connection on a non-HELLO first frame")
	}
}
