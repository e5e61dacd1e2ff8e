package domain

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailTaken           = errors.New("email already in use")
	ErrUsernameTaken        = errors.New("username already in use")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrSelfInvite           = errors.New("cannot invite yourself")
	ErrAlreadyFriends       = errors.New("already friends")
	ErrInviteAlreadySent    = errors.New("invite already sent")
	ErrInviteNotFound       = errors.New("invite not found")
	ErrInviteProcessed      = errors.New("invite already processed")
	ErrNotFriends           = errors.New("not friends")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrMatchNotFound        = errors.New("match not found")
	ErrMatchNotJoinable     = errors.New("match not joinable")
	ErrNotYourMatch         = errors.New("not a participant of this match")
	ErrNotYourTurn          = errors.New("not your turn")
	ErrCellOccupied         = errors.New("cell already occupied")
	ErrInvalidPosition      = errors.New("position out of range")
	ErrMatchNotActive       = errors.New("match not in progress")
)
