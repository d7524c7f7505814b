package services

import "errors"

// Shared errors surfaced by the service layer and mapped to HTTP statuses.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rules.
	ErrValidationFailed          = errors.New("validation failed")
	ErrPasswordTooShort          = errors.New("password is too short")
	ErrInvalidCredentials        = errors.New("invalid email or password")
	ErrRegistrationNotOpen       = errors.New("tournament registration is not open")
	ErrTournamentNotActive       = errors.New("tournament is not active")
	ErrInsufficientParticipants  = errors.New("not enough approved participants")
	ErrDuplicateSeed             = errors.New("duplicate seed among participants")
	ErrUnsupportedFormat         = errors.New("unsupported tournament format")
	ErrInvalidGroupConfiguration = errors.New("invalid group stage configuration")

	// Conflicts.
	ErrUserEmailConflict       = errors.New("email address is already in use")
	ErrUserNicknameConflict    = errors.New("nickname is already in use")
	ErrTournamentNameConflict  = errors.New("tournament name already exists")
	ErrParticipantNameConflict = errors.New("display name is already registered")
	ErrParticipantSeedConflict = errors.New("seed is already assigned")
	ErrBracketAlreadyExists    = errors.New("bracket already generated for this tournament")

	// Result recording.
	ErrMatchNotFound  = errors.New("match not found")
	ErrMatchNotReady  = errors.New("match is not ready for a result")
	ErrInvalidResult  = errors.New("invalid match result")
	ErrResultConflict = errors.New("conflicting result already recorded")

	// Authentication and authorization.
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrForbiddenOperation   = errors.New("operation not allowed for the current user")

	// Entity lookups.
	ErrUserNotFound        = errors.New("user not found")
	ErrTournamentNotFound  = errors.New("tournament not found")
	ErrParticipantNotFound = errors.New("participant not found")

	// Tournament lifecycle.
	ErrTournamentInvalidStatusTransition = errors.New("invalid tournament status transition")
)
