package protocol

import (
	"testing"
)

func TestDecodeJoinRoom(t *testing.T) {
	kind, msg, err := Decode([]byte(`{"type":"join-room","roomId":"R7Q2KX","displayName":"alice"}`))
	if err != nil {
		t.Fatal(err)
	}
	if kind != KindJoinRoom {
		t.Fatalf("expected join-room, got %s", kind)
	}
	jr, ok := msg.(*JoinRoom)
	if !ok {
		t.Fatalf("expected *JoinRoom, got %T", msg)
	}
	if jr.RoomID != "R7Q2KX" || jr.DisplayName != "alice" {
		t.Fatalf("bad payload: %+v", jr)
	}
}

func TestDecodeVoiceOffer(t *testing.T) {
	data := []byte(`{"type":"voice-offer","to":"conn-42","offer":{"type":"offer","sdp":"v=0"}}`)
	kind, msg, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if kind != KindVoiceOffer {
		t.Fatalf("expected voice-offer, got %s", kind)
	}
	vo := msg.(*VoiceOffer)
	if vo.To != "conn-42" || vo.Offer.SDP != "v=0" {
		t.Fatalf("bad payload: %+v", vo)
	}
}

func TestDecodeCursorChangeKeepsOpaquePayload(t *testing.T) {
	data := []byte(`{"type":"cursor-change","roomId":"r1","userId":"u1","cursor":{"line":3,"ch":7}}`)
	_, msg, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	cc := msg.(*CursorChange)
	if string(cc.Cursor) != `{"line":3,"ch":7}` {
		t.Fatalf("cursor payload must pass through untouched, got %s", cc.Cursor)
	}
}

func TestDecodeUnknownKind(t *testing.T) {
	if _, _, err := Decode([]byte(`{"type":"teleport"}`)); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestDecodeBadJSON(t *testing.T) {
	if _, _, err := Decode([]byte(`{`)); err == nil {
		t.Fatal("expected error for malformed frame")
	}
}

func TestEncodeCarriesTypeDiscriminator(t *testing.T) {
	b := Encode(UserListEvent{Type: EvtUserList, Users: []string{"alice"}})
	if string(b) != `{"type":"user-list","users":["alice"]}` {
		t.Fatalf("unexpected encoding: %s", b)
	}
}
