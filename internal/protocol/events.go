package protocol

import (
	"encoding/json"

	"github.com/pion/webrtc/v4"

	"github.com/codehaven/collab-server/internal/domain"
)

// Outbound event kinds.
const (
	EvtUserJoined          = "user-joined"
	EvtUserList            = "user-list"
	EvtVoiceUserJoined     = "voice-user-joined"
	EvtVoiceUserLeft       = "voice-user-left"
	EvtVoiceConnectedUsers = "voice-connected-users"
	EvtChatMessage         = "chat-message"
	EvtCodeChange          = "code-change"
	EvtLanguageChange      = "language-change"
	EvtCursorChange        = "cursor-change"
	EvtAIThinking          = "ai-thinking"
	EvtAIResponse          = "ai-response"
	EvtError               = "error"
)

type UserJoinedEvent struct {
	Type string `json:"type"`
	User string `json:"user"`
}

type UserListEvent struct {
	Type  string   `json:"type"`
	Users []string `json:"users"`
}

type VoiceUserJoinedEvent struct {
	Type     string        `json:"type"`
	UserID   domain.ConnID `json:"userId"`
	UserName string        `json:"userName"`
}

type VoiceUserLeftEvent struct {
	Type   string        `json:"type"`
	UserID domain.ConnID `json:"userId"`
}

type VoiceConnectedUsersEvent struct {
	Type  string                    `json:"type"`
	Users []domain.VoiceParticipant `json:"users"`
}

type VoiceOfferEvent struct {
	Type  string                    `json:"type"`
	From  domain.ConnID             `json:"from"`
	Offer webrtc.SessionDescription `json:"offer"`
}

type VoiceAnswerEvent struct {
	Type   string                    `json:"type"`
	From   domain.ConnID             `json:"from"`
	Answer webrtc.SessionDescription `json:"answer"`
}

type VoiceCandidateEvent struct {
	Type      string                  `json:"type"`
	From      domain.ConnID           `json:"from"`
	Candidate webrtc.ICECandidateInit `json:"candidate"`
}

type ChatMessageEvent struct {
	Type   string        `json:"type"`
	RoomID domain.RoomID `json:"roomId"`
	User   string        `json:"user"`
	Msg    string        `json:"msg"`
}

type CodeChangeEvent struct {
	Type     string        `json:"type"`
	RoomID   domain.RoomID `json:"roomId"`
	FileName string        `json:"fileName"`
	Code     string        `json:"code"`
}

type LanguageChangeEvent struct {
	Type     string        `json:"type"`
	RoomID   domain.RoomID `json:"roomId"`
	Language string        `json:"language"`
}

type CursorChangeEvent struct {
	Type      string          `json:"type"`
	RoomID    domain.RoomID   `json:"roomId"`
	UserID    string          `json:"userId"`
	Cursor    json.RawMessage `json:"cursor"`
	Selection json.RawMessage `json:"selection,omitempty"`
}

type AIThinkingEvent struct {
	Type   string        `json:"type"`
	RoomID domain.RoomID `json:"roomId"`
}

// AIResponseEvent carries both successful answers and terminal failures
// so the client needs only one rendering path.
type AIResponseEvent struct {
	Type    string        `json:"type"`
	RoomID  domain.RoomID `json:"roomId"`
	Success bool          `json:"success"`
	Message string        `json:"message"`
}

type ErrorEvent struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// Encode marshals an outbound event. Events are plain structs with a
// preset Type field, so marshaling cannot fail in practice; a nil slice
// is returned on the impossible error path.
func Encode(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}
