package dto

import (
	domainagent "tripquote/internal/domain/agent"
)

type AgentTierDTO struct {
	AgentID         string `json:"agent_id"`
	CompanyName     string `json:"company_name"`
	Tier            string `json:"tier"`
	DiscountRate    string `json:"discount_rate"`
	TotalPax        int    `json:"total_pax"`
	NextTier        string `json:"next_tier,omitempty"`
	NextTierMinPax  int    `json:"next_tier_min_pax,omitempty"`
	ProgressPercent int    `json:"progress_percent"`
}

func NewAgentTierDTO(a *domainagent.Agent, p domainagent.TierProgress) AgentTierDTO {
	dto := AgentTierDTO{
		AgentID:         string(a.ID),
		CompanyName:     a.CompanyName,
		Tier:            string(a.Tier),
		DiscountRate:    a.Tier.DiscountRate().String(),
		TotalPax:        a.TotalPax,
		ProgressPercent: p.ProgressPercent,
	}
	if p.Next != p.Current {
		dto.NextTier = string(p.Next)
		dto.NextTierMinPax = p.NextMinPax
	}
	return dto
}
