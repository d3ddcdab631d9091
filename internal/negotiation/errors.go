package negotiation

import "errors"

var (
	// ErrInvalidListing rejects listings with a non-positive price.
	ErrInvalidListing = errors.New("invalid listing")
	// ErrTerminalNegotiation rejects mutations of a closed negotiation.
	ErrTerminalNegotiation = errors.New("negotiation already closed")
	// ErrRoundsExhausted signals the strategy plateau has been played out;
	// the only remaining move is WalkAway.
	ErrRoundsExhausted = errors.New("escalation rounds exhausted")
)
