package checkout

import (
	"sync"

	"github.com/princinho/urbanthreads/models"
)

const defaultMaxFlows = 10000

// Registry keeps the in-progress checkout of each visitor in memory.
type Registry struct {
	opts []Option
	max  int

	mu    sync.Mutex
	flows map[string]*Flow
}

func NewRegistry(maxFlows int, opts ...Option) *Registry {
	if maxFlows <= 0 {
		maxFlows = defaultMaxFlows
	}
	return &Registry{opts: opts, max: maxFlows, flows: make(map[string]*Flow)}
}

// Enter applies the entry guards and returns the visitor's running checkout,
// starting a new one when there is none or the previous one completed.
func (r *Registry) Enter(visitorID string, user *models.User, cart Cart) (*Flow, error) {
	if err := Guard(user, cart); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.flows[visitorID]; ok && f.Step() != StepCompleted {
		f.attach(cart)
		return f, nil
	}
	f, err := Begin(user, cart, r.opts...)
	if err != nil {
		return nil, err
	}
	if len(r.flows) >= r.max {
		for id := range r.flows {
			delete(r.flows, id)
			break
		}
	}
	r.flows[visitorID] = f
	return f, nil
}

// Current returns the visitor's checkout without applying the guards.
func (r *Registry) Current(visitorID string) (*Flow, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.flows[visitorID]
	return f, ok
}

// Resume is Current with the flow rebound to cart, the visitor's live store.
func (r *Registry) Resume(visitorID string, cart Cart) (*Flow, bool) {
	f, ok := r.Current(visitorID)
	if !ok {
		return nil, false
	}
	f.attach(cart)
	return f, true
}

func (r *Registry) Discard(visitorID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.flows, visitorID)
}
