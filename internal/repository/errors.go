package repository

import "errors"

// Common repository errors
var (
	// ErrBoardNotFound is returned when a board is not found
	ErrBoardNotFound = errors.New("board not found")

	// ErrStickerNotFound is returned when a sticker is not found
	ErrStickerNotFound = errors.New("sticker not found")

	// ErrMemberNotFound is returned when the target user has no membership on the board
	ErrMemberNotFound = errors.New("member not found")

	// ErrMemberExists is returned by invite when the user already has a role on the board
	ErrMemberExists = errors.New("user is already a member of the board")

	// ErrRoleNotAssignable is returned when invite or role update is asked to grant
	// anything other than editor or viewer
	ErrRoleNotAssignable = errors.New("role cannot be assigned")
)
