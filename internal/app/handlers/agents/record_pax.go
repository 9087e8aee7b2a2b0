package agents

import (
	"context"

	"tripquote/internal/app/handlers/support"
	"tripquote/internal/app/uow"
	domainagent "tripquote/internal/domain/agent"
)

type RecordBookedPaxCommand struct {
	AgentID string
	Pax     int
}

// RecordBookedPaxHandler adds booked travellers to an agent's lifetime pax
// and promotes the tier when a threshold is crossed. Driven by quote.booked
// events, so it must tolerate replays: a negative or zero pax is a no-op.
type RecordBookedPaxHandler struct {
	UoWFactory uow.Factory
}

func (h *RecordBookedPaxHandler) Handle(ctx context.Context, cmd RecordBookedPaxCommand) (*domainagent.Agent, error) {
	if cmd.Pax <= 0 {
		return nil, nil
	}
	unit, ctx, cleanup, err := support.BeginUnit(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer cleanup()

	ag, err := unit.Agents().ByID(ctx, domainagent.AgentID(cmd.AgentID))
	if err != nil {
		return nil, err
	}
	ag.TotalPax += cmd.Pax
	if promoted := domainagent.TierForPax(ag.TotalPax); promoted.Outranks(ag.Tier) {
		ag.Tier = promoted
	}
	if err := unit.Agents().Save(ctx, ag); err != nil {
		return nil, err
	}
	if err := unit.Commit(ctx); err != nil {
		return nil, err
	}
	return ag, nil
}
