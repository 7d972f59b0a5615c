package protocol

import (
	"errors"
	"testing"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Inbound
	}{
		{"iframe loaded", `{"type":"iframeLoaded"}`, IframeLoaded{}},
		{"check request", `{"type":"checkRequest","html":"<p>a</p>"}`, CheckRequest{HTML: "<p>a</p>"}},
		{"check request empty html", `{"type":"checkRequest","html":""}`, CheckRequest{}},
		{"attack complete", `{"type":"attackComplete"}`, AttackComplete{}},
		{"player died", `{"type":"playerDied"}`, PlayerDied{}},
		{"battle won with extra fields", `{"type":"battleWon","hp":3}`, BattleWon{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.raw))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Decode() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestDecode_Invalid(t *testing.T) {
	for _, raw := range []string{
		`not json`,
		`{}`,
		`{"type":"loadLesson","challenge":"x"}`,
		`{"type":"checkRequest"}`,
		`{"type":"checkRequest","html":42}`,
		`["checkRequest"]`,
	} {
		if _, err := Decode([]byte(raw)); !errors.Is(err, ErrInvalidMessage) {
			t.Errorf("Decode(%s) error = %v, want ErrInvalidMessage", raw, err)
		}
	}
}

func TestEncode(t *testing.T) {
	tests := []struct {
		msg  Message
		want string
	}{
		{LoadLesson("Add a <p>"), `{"type":"loadLesson","challenge":"Add a <p>"}`},
		{ResetBattle(), `{"type":"resetBattle"}`},
		{SetBugDamage(ReducedBugDamage), `{"type":"setBugDamage","damage":6.25}`},
		{SetBugDamage(BaseBugDamage), `{"type":"setBugDamage","damage":25}`},
		{CheckSuccess(), `{"type":"checkSuccess"}`},
		{CheckFailure(), `{"type":"checkFailure"}`},
	}

	for _, tt := range tests {
		data, err := Encode(tt.msg)
		if err != nil {
			t.Fatalf("Encode() error = %v", err)
		}
		if string(data) != tt.want {
			t.Errorf("Encode(%v) = %s, want %s", tt.msg.Type, data, tt.want)
		}
	}
}
