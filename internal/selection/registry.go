package selection

import (
	"sync"

	"ecosniper/internal/domain"
	"ecosniper/internal/util"
)

// Registry owns one PlanSelection per plan code for the lifetime of a
// session, so selection state survives navigation between plans without
// leaking into any rendering layer.
type Registry struct {
	mu        sync.Mutex
	checker   Checker
	snapshots SnapshotStore
	plans     map[string]*PlanSelection
}

// NewRegistry builds a session-scoped registry. checker and snapshots are
// shared by every plan selection the registry creates.
func NewRegistry(checker Checker, snapshots SnapshotStore) *Registry {
	return &Registry{
		checker:   checker,
		snapshots: snapshots,
		plans:     make(map[string]*PlanSelection),
	}
}

// Plan returns the selection context for a plan, creating it on first
// use (restoring any persisted confirmed snapshot at that point).
func (r *Registry) Plan(plan domain.Plan) *PlanSelection {
	key := util.NormalizeKey(plan.Code)

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.plans[key]; ok {
		return existing
	}
	created := NewPlanSelection(plan, r.checker, r.snapshots)
	r.plans[key] = created
	return created
}

// Forget drops the selection context for a plan code, if any.
func (r *Registry) Forget(planCode string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.plans, util.NormalizeKey(planCode))
}
