package domain

import "errors"

var (
	ErrAlreadyJoined = errors.New("connection already joined a room")
	ErrUnknownConn   = errors.New("unknown connection")
	ErrEmptyRoomID   = errors.New("empty room id")
	ErrEmptyName     = errors.New("empty display name")
)
