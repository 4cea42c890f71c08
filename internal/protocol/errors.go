package protocol

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"
	ErrAuthDenied      = "E_AUTH_DENIED"

	// Equip/afford layer.
	ErrNotAllowed  = "E_NOT_ALLOWED"
	ErrNoStock     = "E_NO_STOCK"
	ErrNoGold      = "E_NO_GOLD"
	ErrNotCivilian = "E_NOT_CIVILIAN"

	// Routing/state.
	ErrBadRequest    = "E_BAD_REQUEST"
	ErrInvalidTarget = "E_INVALID_TARGET"
	ErrInternal      = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest: {},
	ErrAuthDenied:      {},
	ErrNotAllowed:      {},
	ErrNoStock:         {},
	ErrNoGold:          {},
	ErrNotCivilian:     {},
	ErrBadRequest:      {},
	ErrInvalidTarget:   {},
	ErrInternal:        {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
