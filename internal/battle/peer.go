package battle

import (
	"context"
	"log/slog"

	"github.com/ashureev/markup-labs/internal/protocol"
	"github.com/coder/websocket"
)

// peer is the outbound half of a battle view connection. Send never
// blocks: frames are queued and written by writeLoop, and dropped when the
// queue is full.
type peer struct {
	id     string
	out    chan protocol.Message
	logger *slog.Logger
}

func newPeer(id string, size int, logger *slog.Logger) *peer {
	if size <= 0 {
		size = 64
	}
	return &peer{
		id:     id,
		out:    make(chan protocol.Message, size),
		logger: logger,
	}
}

// Send implements lesson.Peer.
func (p *peer) Send(msg protocol.Message) {
	select {
	case p.out <- msg:
	default:
		p.logger.Warn("Battle peer outbox full, dropping frame", "peer_id", p.id, "type", msg.Type)
	}
}

func (p *peer) writeLoop(ctx context.Context, ws *websocket.Conn) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-p.out:
			data, err := protocol.Encode(msg)
			if err != nil {
				p.logger.Error("Failed to encode battle frame", "type", msg.Type, "error", err)
				continue
			}
			if err := ws.Write(ctx, websocket.MessageText, data); err != nil {
				if ctx.Err() == nil {
					p.logger.Debug("Battle websocket write error", "peer_id", p.id, "error", err)
				}
				return
			}
		}
	}
}
