package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"troopforge.sim/internal/protocol"
	"troopforge.sim/internal/sim/host"
)

// TokenChecker validates a handshake token and returns the authenticated
// username. Nil means the server accepts anonymous sessions.
type TokenChecker interface {
	ParseToken(tok string) (string, error)
}

type Server struct {
	host *host.Host
	auth TokenChecker
	log  *log.Logger

	itemsDigest  string
	troopsDigest string

	upgrader websocket.Upgrader
}

func NewServer(h *host.Host, auth TokenChecker, itemsDigest, troopsDigest string, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		host:         h,
		auth:         auth,
		log:          logger,
		itemsDigest:  itemsDigest,
		troopsDigest: troopsDigest,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  32 * 1024,
			WriteBufferSize: 32 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		user, ok := s.handshake(ctx, conn)
		if !ok {
			return
		}

		for {
			_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			base, err := protocol.DecodeBase(msg)
			if err != nil || base.Type != protocol.TypeAct {
				continue
			}
			var act protocol.ActMsg
			if err := json.Unmarshal(msg, &act); err != nil {
				continue
			}
			if act.ProtocolVersion != protocol.Version {
				continue
			}

			res, err := s.host.Ask(ctx, act)
			if err != nil {
				return
			}
			if err := writeJSON(conn, res); err != nil {
				s.log.Printf("ws: write to %s failed: %v", user, err)
				return
			}
		}
	}
}

// handshake expects HELLO as the first frame and answers with WELCOME.
func (s *Server) handshake(ctx context.Context, conn *websocket.Conn) (user string, ok bool) {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return "", false
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		closeWith(conn, "expected HELLO")
		return "", false
	}

	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		return "", false
	}
	if hello.ProtocolVersion != protocol.Version {
		closeWith(conn, "bad protocol_version")
		return "", false
	}

	user = "anonymous"
	if s.auth != nil {
		user, err = s.auth.ParseToken(hello.Token)
		if err != nil {
			closeWith(conn, protocol.ErrAuthDenied)
			return "", false
		}
	}

	welcome, err := s.host.AskWelcome(ctx, s.itemsDigest, s.troopsDigest)
	if err != nil {
		return "", false
	}
	if err := writeJSON(conn, welcome); err != nil {
		return "", false
	}
	return user, true
}

func closeWith(conn *websocket.Conn, reason string) {
	_ = conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason),
		time.Now().Add(time.Second),
	)
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}
