// Package domain contains entities without logic, just meta-data.
package domain

type (
	// ConnID is the transport-assigned identifier of one live connection.
	// It is the addressing key for point-to-point signaling relay.
	ConnID string

	// RoomID is an opaque, client-chosen room key.
	RoomID string
)

const (
	MaxRoomIDLen      = 64
	MaxDisplayNameLen = 36
)
