package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/IBM/sarama"

	"tripquote/internal/app/handlers/agents"
)

// TierProjector consumes quote.booked CloudEvents and feeds booked pax into
// the agent tier projection. Non-booked events on the topic are skipped.
type TierProjector struct {
	Handler *agents.RecordBookedPaxHandler
	Logger  *slog.Logger
}

type cloudEventEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type bookedPayload struct {
	AgentID string `json:"AgentID"`
	Pax     int    `json:"Pax"`
}

func (p *TierProjector) Handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var env cloudEventEnvelope
	if err := json.Unmarshal(msg.Value, &env); err != nil {
		p.log().Warn("tier projector: malformed event", "topic", msg.Topic, "err", err)
		return nil
	}
	if !strings.HasPrefix(env.Type, "quote.booked") {
		return nil
	}
	var payload bookedPayload
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		p.log().Warn("tier projector: malformed booked payload", "err", err)
		return nil
	}
	if payload.AgentID == "" || payload.Pax <= 0 {
		return nil
	}
	if _, err := p.Handler.Handle(ctx, agents.RecordBookedPaxCommand{AgentID: payload.AgentID, Pax: payload.Pax}); err != nil {
		p.log().Error("tier projector: record pax failed", "agent_id", payload.AgentID, "err", err)
		return err
	}
	return nil
}

func (p *TierProjector) log() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}
