// Package protocol defines the JSON message contract between a learner
// session and its battle view peer.
package protocol

import (
	"bytes"
	"encoding/json"
)

// Type is the discriminant carried by every frame.
type Type string

// Outbound frames (session -> battle view).
const (
	TypeLoadLesson   Type = "loadLesson"
	TypeResetBattle  Type = "resetBattle"
	TypeSetBugDamage Type = "setBugDamage"
	TypeCheckSuccess Type = "checkSuccess"
	TypeCheckFailure Type = "checkFailure"
)

// Inbound frames (battle view -> session).
const (
	TypeIframeLoaded   Type = "iframeLoaded"
	TypeCheckRequest   Type = "checkRequest"
	TypeAttackComplete Type = "attackComplete"
	TypePlayerDied     Type = "playerDied"
	TypeBattleWon      Type = "battleWon"
)

// Counter-attack damage advertised to the battle view. The session never
// simulates health; the value only informs the peer's own combat.
const (
	BaseBugDamage    = 25.0
	ReducedBugDamage = BaseBugDamage * 0.25
)

// Message is an outbound frame.
type Message struct {
	Type      Type    `json:"type"`
	Challenge string  `json:"challenge,omitempty"`
	Damage    float64 `json:"damage,omitempty"`
}

// LoadLesson sets the active instruction text.
func LoadLesson(challenge string) Message {
	return Message{Type: TypeLoadLesson, Challenge: challenge}
}

// ResetBattle resets the peer's combat state.
func ResetBattle() Message {
	return Message{Type: TypeResetBattle}
}

// SetBugDamage sets the damage of the next counter-attack.
func SetBugDamage(damage float64) Message {
	return Message{Type: TypeSetBugDamage, Damage: damage}
}

// CheckSuccess plays the success animation.
func CheckSuccess() Message {
	return Message{Type: TypeCheckSuccess}
}

// CheckFailure plays the failure animation.
func CheckFailure() Message {
	return Message{Type: TypeCheckFailure}
}

// Encode serializes an outbound frame. Challenge text routinely contains
// markup, so HTML escaping is disabled.
func Encode(msg Message) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(msg); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
