// Package protocol defines the wire message model for the room sync
// transport. Every inbound and outbound kind is a concrete type; the
// envelope is decoded once at the transport boundary so the rest of the
// server never branches on loosely-typed maps.
package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/pion/webrtc/v4"

	"github.com/codehaven/collab-server/internal/domain"
)

type Kind string

const (
	KindJoinRoom       Kind = "join-room"
	KindJoinVoice      Kind = "join-voice"
	KindLeaveVoice     Kind = "leave-voice"
	KindVoiceOffer     Kind = "voice-offer"
	KindVoiceAnswer    Kind = "voice-answer"
	KindVoiceCandidate Kind = "voice-candidate"
	KindChatMessage    Kind = "chat-message"
	KindCodeChange     Kind = "code-change"
	KindLanguageChange Kind = "language-change"
	KindCursorChange   Kind = "cursor-change"
	KindAskAI          Kind = "ask-ai"
)

type JoinRoom struct {
	RoomID      domain.RoomID `json:"roomId"`
	DisplayName string        `json:"displayName"`
}

type JoinVoice struct {
	RoomID domain.RoomID `json:"roomId"`
}

type LeaveVoice struct {
	RoomID domain.RoomID `json:"roomId"`
}

type VoiceOffer struct {
	To    domain.ConnID             `json:"to"`
	Offer webrtc.SessionDescription `json:"offer"`
}

type VoiceAnswer struct {
	To     domain.ConnID             `json:"to"`
	Answer webrtc.SessionDescription `json:"answer"`
}

type VoiceCandidate struct {
	To        domain.ConnID           `json:"to"`
	Candidate webrtc.ICECandidateInit `json:"candidate"`
}

type ChatMessage struct {
	RoomID domain.RoomID `json:"roomId"`
	User   string        `json:"user"`
	Msg    string        `json:"msg"`
}

type CodeChange struct {
	RoomID   domain.RoomID `json:"roomId"`
	FileName string        `json:"fileName"`
	Code     string        `json:"code"`
}

type LanguageChange struct {
	RoomID   domain.RoomID `json:"roomId"`
	Language string        `json:"language"`
}

type CursorChange struct {
	RoomID    domain.RoomID   `json:"roomId"`
	UserID    string          `json:"userId"`
	Cursor    json.RawMessage `json:"cursor"`
	Selection json.RawMessage `json:"selection,omitempty"`
}

type AskAI struct {
	RoomID       domain.RoomID `json:"roomId"`
	Prompt       string        `json:"prompt"`
	SelectedCode string        `json:"selectedCode,omitempty"`
	FilePath     string        `json:"filePath,omitempty"`
	Language     string        `json:"language,omitempty"`
}

// Decode unmarshals one inbound frame into its typed message.
// The returned value is a pointer to one of the structs above.
func Decode(data []byte) (Kind, any, error) {
	var env struct {
		Type Kind `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return "", nil, fmt.Errorf("decode envelope: %w", err)
	}

	var msg any
	switch env.Type {
	case KindJoinRoom:
		msg = &JoinRoom{}
	case KindJoinVoice:
		msg = &JoinVoice{}
	case KindLeaveVoice:
		msg = &LeaveVoice{}
	case KindVoiceOffer:
		msg = &VoiceOffer{}
	case KindVoiceAnswer:
		msg = &VoiceAnswer{}
	case KindVoiceCandidate:
		msg = &VoiceCandidate{}
	case KindChatMessage:
		msg = &ChatMessage{}
	case KindCodeChange:
		msg = &CodeChange{}
	case KindLanguageChange:
		msg = &LanguageChange{}
	case KindCursorChange:
		msg = &CursorChange{}
	case KindAskAI:
		msg = &AskAI{}
	default:
		return env.Type, nil, fmt.Errorf("unknown message kind %q", env.Type)
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return env.Type, nil, fmt.Errorf("decode %s payload: %w", env.Type, err)
	}
	return env.Type, msg, nil
}
