package telemetry

// PhaseInfo describes one timed phase of the simulation step for display.
type PhaseInfo struct {
	ID          string // key used by PerfCollector.StartPhase
	Name        string // display name
	Description string
}

// PhaseRegistry holds metadata about the step phases.
// This keeps phase naming in one place so the UI and perf output stay in sync.
type PhaseRegistry struct {
	phases []PhaseInfo
	byID   map[string]PhaseInfo
}

// DefaultPhases lists every phase in step order.
var DefaultPhases = NewPhaseRegistry()

// NewPhaseRegistry creates a registry with the step phases registered.
func NewPhaseRegistry() *PhaseRegistry {
	reg := &PhaseRegistry{
		byID: make(map[string]PhaseInfo),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds the step phases in the order Game.Step runs them.
func (r *PhaseRegistry) registerDefaults() {
	r.Register(PhaseInfo{ID: PhaseGeneSample, Name: "Gene Sample", Description: "Samples gene means and the population average"})
	r.Register(PhaseInfo{ID: PhaseEntities, Name: "Entities", Description: "Ages, moves and feeds every creature and fruit"})
	r.Register(PhaseInfo{ID: PhaseBreeding, Name: "Breeding", Description: "Advances pairings and births children"})
	r.Register(PhaseInfo{ID: PhaseSpawning, Name: "Spawning", Description: "Adds ambient fruit and random creatures"})
	r.Register(PhaseInfo{ID: PhaseTelemetry, Name: "Telemetry", Description: "Flushes stats windows and perf samples"})
}

// Register adds a phase. Re-registering an ID replaces its metadata but
// keeps its position.
func (r *PhaseRegistry) Register(info PhaseInfo) {
	if _, ok := r.byID[info.ID]; ok {
		for i := range r.phases {
			if r.phases[i].ID == info.ID {
				r.phases[i] = info
			}
		}
	} else {
		r.phases = append(r.phases, info)
	}
	r.byID[info.ID] = info
}

// Get returns phase info by ID.
func (r *PhaseRegistry) Get(id string) (PhaseInfo, bool) {
	info, ok := r.byID[id]
	return info, ok
}

// Name returns the display name for a phase ID.
// Falls back to the ID itself if not found.
func (r *PhaseRegistry) Name(id string) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id
}

// All returns all registered phases.
func (r *PhaseRegistry) All() []PhaseInfo {
	return r.phases
}

// IDs returns all phase IDs in registration order.
func (r *PhaseRegistry) IDs() []string {
	ids := make([]string, len(r.phases))
	for i, info := range r.phases {
		ids[i] = info.ID
	}
	return ids
}
