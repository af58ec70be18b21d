package model

import (
	"fmt"
	"time"
)

// AgentID identifies one of the fixed specialized responders.
type AgentID string

const (
	AgentFAQ      AgentID = "faq"
	AgentSchedule AgentID = "schedule"
	AgentStaff    AgentID = "staff"
	AgentCatchall AgentID = "catchall"
)

// AgentDescriptor is the static configuration for one agent. Loaded once at
// startup and never mutated during request handling.
type AgentDescriptor struct {
	ID               AgentID
	AllowedIntents   map[Intent]struct{}
	ExcludedKeywords []string
	DocumentScopes   []string
	Timeout          time.Duration
	MaxTokens        int
}

// Allows reports whether the agent claims the intent.
func (a *AgentDescriptor) Allows(intent Intent) bool {
	_, ok := a.AllowedIntents[intent]
	return ok
}

func intentSet(intents ...Intent) map[Intent]struct{} {
	s := make(map[Intent]struct{}, len(intents))
	for _, it := range intents {
		s[it] = struct{}{}
	}
	return s
}

// AgentRegistry holds the configured agents in routing-priority order:
// specialists first, the generalist FAQ agent after them, the catch-all last.
type AgentRegistry struct {
	order  []AgentID
	agents map[AgentID]*AgentDescriptor
}

// NewAgentRegistry builds the registry from per-agent timeout/token budgets.
// It rejects descriptors that reference intents outside the closed enum so
// configuration mistakes surface at startup, not per request.
func NewAgentRegistry(cfg AgentConfig) (*AgentRegistry, error) {
	timeouts, err := cfg.parseTimeouts()
	if err != nil {
		return nil, err
	}

	descriptors := []*AgentDescriptor{
		{
			ID:             AgentSchedule,
			AllowedIntents: intentSet(IntentAcademicSchedule, IntentRegistration),
			// A registration query that is really about money belongs to the
			// FAQ agent, which carries the fee tables.
			ExcludedKeywords: []string{"fee", "fees", "tuition", "payment", "yuran"},
			DocumentScopes:   []string{"schedule"},
			Timeout:          timeouts[AgentSchedule],
			MaxTokens:        cfg.ScheduleMaxTokens,
		},
		{
			ID:             AgentStaff,
			AllowedIntents: intentSet(IntentStaffContact, IntentAboutFAIX),
			// Faculty-history questions mention the faculty name but are not
			// staff lookups; these tokens keep about_faix bleed out.
			ExcludedKeywords: []string{"established", "founded", "history", "vision", "mission", "programs", "programmes"},
			DocumentScopes:   []string{"staff"},
			Timeout:          timeouts[AgentStaff],
			MaxTokens:        cfg.StaffMaxTokens,
		},
		{
			ID: AgentFAQ,
			AllowedIntents: intentSet(
				IntentAboutFAIX, IntentProgramInfo, IntentCourseInfo,
				IntentRegistration, IntentAdmission, IntentFacilityInfo,
				IntentFees, IntentResearch, IntentCareer,
			),
			DocumentScopes: []string{"faq"},
			Timeout:        timeouts[AgentFAQ],
			MaxTokens:      cfg.FAQMaxTokens,
		},
		{
			ID:             AgentCatchall,
			AllowedIntents: intentSet(IntentGreeting, IntentFarewell, IntentUnknown),
			DocumentScopes: []string{"faq"},
			Timeout:        timeouts[AgentCatchall],
			MaxTokens:      cfg.CatchallMaxTokens,
		},
	}

	reg := &AgentRegistry{agents: make(map[AgentID]*AgentDescriptor, len(descriptors))}
	for _, d := range descriptors {
		for intent := range d.AllowedIntents {
			if _, err := ParseIntent(string(intent)); err != nil {
				return nil, fmt.Errorf("agent %s: %w", d.ID, err)
			}
		}
		reg.agents[d.ID] = d
		reg.order = append(reg.order, d.ID)
	}
	return reg, nil
}

// Get returns the descriptor for the id, or nil when unknown.
func (r *AgentRegistry) Get(id AgentID) *AgentDescriptor {
	return r.agents[id]
}

// All returns the descriptors in routing-priority order.
func (r *AgentRegistry) All() []*AgentDescriptor {
	out := make([]*AgentDescriptor, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.agents[id])
	}
	return out
}

// Catchall returns the generic fallback agent.
func (r *AgentRegistry) Catchall() *AgentDescriptor {
	return r.agents[AgentCatchall]
}
