package domain

// VoiceParticipant is one connection opted into voice within a room.
// ID and Name are copied at voice-join time; the voice roster is
// independent of general room membership.
type VoiceParticipant struct {
	ID   ConnID `json:"id"`
	Name string `json:"name"`
}
