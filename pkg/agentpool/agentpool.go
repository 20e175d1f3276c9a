// Package agentpool implements AgentPool: the unordered set of Agents
// with the lookup operations the kernel's handlers need - best
// available agent for a contact type, a uniformly sampled disabled
// agent, and the earliest-entered enabled agent (for agent-out
// selection).
package agentpool

import (
	"math/rand"

	"github.com/contactsim/core/pkg/agent"
)

// AgentPool holds agents in insertion order; all lookups below are
// resolved by scanning that order so ties are broken deterministically.
type AgentPool struct {
	agents []*agent.Agent
}

// New returns an empty AgentPool.
func New() *AgentPool {
	return &AgentPool{}
}

// AddAgent appends a to the pool.
func (p *AgentPool) AddAgent(a *agent.Agent) {
	p.agents = append(p.agents, a)
}

// Agents returns the pool's agents in insertion order.
func (p *AgentPool) Agents() []*agent.Agent {
	return p.agents
}

// FindBestAvailAgent returns, among agents whose availability for
// contactType is > 0, the one with the lowest OccupiedLines (ties
// broken by insertion order). Returns nil if no agent qualifies.
func (p *AgentPool) FindBestAvailAgent(contactType string) *agent.Agent {
	var best *agent.Agent
	for _, a := range p.agents {
		if a.Availability()[contactType] <= 0 {
			continue
		}
		if best == nil || a.OccupiedLines() < best.OccupiedLines() {
			best = a
		}
	}
	return best
}

// SampleDisabled returns a uniformly random disabled agent, or nil if
// none are disabled.
func (p *AgentPool) SampleDisabled(rng *rand.Rand) *agent.Agent {
	var disabled []*agent.Agent
	for _, a := range p.agents {
		if a.Disabled {
			disabled = append(disabled, a)
		}
	}
	if len(disabled) == 0 {
		return nil
	}
	return disabled[rng.Intn(len(disabled))]
}

// FindEarliestIn returns the enabled agent with the smallest LastIn
// (earliest-in-first-out for agent-out selection), or nil if none are
// enabled.
func (p *AgentPool) FindEarliestIn() *agent.Agent {
	var earliest *agent.Agent
	for _, a := range p.agents {
		if a.Disabled {
			continue
		}
		if earliest == nil || a.LastIn < earliest.LastIn {
			earliest = a
		}
	}
	return earliest
}

// FindAgentByID looks up an agent by id, or nil if not found.
func (p *AgentPool) FindAgentByID(id string) *agent.Agent {
	for _, a := range p.agents {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// Len returns the number of agents in the pool.
func (p *AgentPool) Len() int {
	return len(p.agents)
}
