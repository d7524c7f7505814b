package brackets

import "errors"

// Engine error taxonomy. All of these are caller-input failures returned to the
// immediate caller; the engine never retries and never swallows an
// inconsistency.
var (
	ErrInsufficientParticipants = errors.New("not enough participants to generate a bracket")
	ErrDuplicateSeed            = errors.New("two participants share the same seed")
	ErrUnsupportedFormat        = errors.New("unsupported tournament format")
	ErrInvalidSlotCount         = errors.New("slot count must be a power of two for elimination formats")
	ErrMaterializationConflict  = errors.New("bracket already materialized, regenerate explicitly")
	ErrMatchNotFound            = errors.New("match not found in bracket")
	ErrInvalidResult            = errors.New("invalid match result")
	ErrMatchNotReady            = errors.New("match is not ready, a slot is still empty")
	ErrResultConflict           = errors.New("match was already completed with a different result")
)
