package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// ErrInvalidMessage is returned for frames that do not match the inbound contract.
var ErrInvalidMessage = errors.New("protocol: invalid message")

// Inbound is a frame received from the battle view. The concrete types
// below are the only implementations.
type Inbound interface {
	Type() Type
}

// IframeLoaded reports that the peer is ready.
type IframeLoaded struct{}

// CheckRequest asks for validation of the learner's document.
type CheckRequest struct {
	HTML string
}

// AttackComplete reports that the player's attack animation finished.
type AttackComplete struct{}

// PlayerDied reports that the player lost the encounter.
type PlayerDied struct{}

// BattleWon reports that the player defeated the encounter.
type BattleWon struct{}

func (IframeLoaded) Type() Type   { return TypeIframeLoaded }
func (CheckRequest) Type() Type   { return TypeCheckRequest }
func (AttackComplete) Type() Type { return TypeAttackComplete }
func (PlayerDied) Type() Type     { return TypePlayerDied }
func (BattleWon) Type() Type      { return TypeBattleWon }

const inboundSchema = `{
  "type": "object",
  "required": ["type"],
  "properties": {
    "type": {"enum": ["iframeLoaded", "checkRequest", "attackComplete", "playerDied", "battleWon"]},
    "html": {"type": "string"}
  },
  "if": {"properties": {"type": {"const": "checkRequest"}}},
  "then": {"required": ["html"]}
}`

var compileInbound = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(inboundSchema))
	if err != nil {
		return nil, fmt.Errorf("parse inbound schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema://inbound.json", doc); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	return c.Compile("schema://inbound.json")
})

type envelope struct {
	Type Type   `json:"type"`
	HTML string `json:"html"`
}

// Decode parses a raw frame into its Inbound variant.
func Decode(raw []byte) (Inbound, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}

	schema, err := compileInbound()
	if err != nil {
		return nil, fmt.Errorf("compile inbound schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}

	switch env.Type {
	case TypeIframeLoaded:
		return IframeLoaded{}, nil
	case TypeCheckRequest:
		return CheckRequest{HTML: env.HTML}, nil
	case TypeAttackComplete:
		return AttackComplete{}, nil
	case TypePlayerDied:
		return PlayerDied{}, nil
	case TypeBattleWon:
		return BattleWon{}, nil
	}
	return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidMessage, env.Type)
}
