// Package registry maps agent names to their reply addresses.
package registry

import (
	"reservation-controller/models"

	"github.com/google/uuid"
)

// Registry holds every agent seen during a run. Entries are never removed.
// It is not safe for concurrent use; the controller serializes access.
type Registry struct {
	agents map[string]*models.AgentInfo
	order  []string
}

func New() *Registry {
	return &Registry{agents: make(map[string]*models.AgentInfo)}
}

// Register adds name with the given reply address. Registering a known name
// again only replaces its address. created reports whether the entry is new.
func (r *Registry) Register(name, address string) (info models.AgentInfo, created bool) {
	if existing, ok := r.agents[name]; ok {
		existing.ReplyAddress = address
		return *existing, false
	}

	agent := &models.AgentInfo{
		Name:         name,
		ReplyAddress: address,
		SessionID:    uuid.NewString(),
	}
	r.agents[name] = agent
	r.order = append(r.order, name)
	return *agent, true
}

// Lookup returns the agent registered under name.
func (r *Registry) Lookup(name string) (models.AgentInfo, bool) {
	agent, ok := r.agents[name]
	if !ok {
		return models.AgentInfo{}, false
	}
	return *agent, true
}

// All returns every registered agent in first-registration order.
func (r *Registry) All() []models.AgentInfo {
	out := make([]models.AgentInfo, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, *r.agents[name])
	}
	return out
}

// Len returns the number of registered agents.
func (r *Registry) Len() int {
	return len(r.order)
}
