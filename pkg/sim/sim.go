// Package sim is the simulator's single public entry point: a facade
// over the unexported kernel mechanics, matching the teacher's
// convention of a thin exported package hiding internal state behind
// methods only (e.g. pkg/dlq.DeadLetterQueue hides strategyMap/messages).
// It owns contact-type registration, agent-pool construction, the three
// event-stream constructors of spec §6, and simulate()/reset/result
// accessors.
package sim

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/contactsim/core/pkg/agent"
	"github.com/contactsim/core/pkg/agentpool"
	"github.com/contactsim/core/pkg/contact"
	"github.com/contactsim/core/pkg/contacttype"
	"github.com/contactsim/core/pkg/event"
	"github.com/contactsim/core/pkg/kernel"
	"github.com/contactsim/core/pkg/simconfig"
	"github.com/contactsim/core/pkg/simerr"
	"github.com/contactsim/core/pkg/simlog"
	"github.com/contactsim/core/pkg/tracelog"
)

// AgentBlueprint is one line-group record in the blueprint passed to
// AddAgents: num_lines identical lines, each accepting contactTypes at
// priority, with an optional per-line max_occ.
type AgentBlueprint struct {
	NumLines     int
	ContactTypes []string
	Priority     int
	MaxOcc       *int
}

// PerformanceCallback produces one agent's performance factor; invoked
// once per agent added by AddAgents.
type PerformanceCallback func() float64

// Simulator is the facade described in SPEC_FULL's Simulator-facade
// supplement: it owns the AgentPool, the contact-type registry, and the
// three scheduling queues plus the waiting queue (via an internal
// kernel.Kernel), and exposes exactly the operations of spec §6.
type Simulator struct {
	config simconfig.Config
	rng    *rand.Rand

	types contacttype.Registry
	pool  *agentpool.AgentPool

	k *kernel.Kernel

	nextContactSeq int
	nextAgentSeq   int
}

// New constructs a Simulator from cfg, seeding its single RNG from
// cfg.RandSeed per spec §5's determinism requirement.
func New(cfg simconfig.Config) *Simulator {
	cfg = cfg.WithDefaults()
	s := &Simulator{
		config: cfg,
		rng:    rand.New(rand.NewSource(cfg.RandSeed)),
		pool:   agentpool.New(),
	}
	s.resetKernel()
	return s
}

func (s *Simulator) resetKernel() {
	s.k = kernel.New(s.pool, s.types.All(), s.rng, s.config.RoundingPrecision)
}

// AddContactType registers a contact type. base must be > 0 and
// increment >= 0; these are the two fatal setup errors of spec §7.
func (s *Simulator) AddContactType(name string, base, increment float64, averagePatience, autoSolveTime *float64) error {
	return s.types.Add(name, base, increment, averagePatience, autoSolveTime)
}

// RemoveContactType deregisters a contact type; a no-op if unknown.
func (s *Simulator) RemoveContactType(name string) {
	s.types.Remove(name)
}

// ListContactTypes returns the registered contact-type names.
func (s *Simulator) ListContactTypes() []string {
	return s.types.List()
}

// AddAgents materialises numAgents agents from blueprint, invoking perf
// once per agent for its performance factor. Agents start disabled, per
// spec §3; callers drive them in/out via GenerateIOFromCoverage or
// GenerateBasicIO.
func (s *Simulator) AddAgents(blueprint []AgentBlueprint, numAgents int, perf PerformanceCallback) []*agent.Agent {
	lineBlueprints := make([]agent.LineBlueprint, 0, len(blueprint))
	for _, bp := range blueprint {
		for i := 0; i < bp.NumLines; i++ {
			lineBlueprints = append(lineBlueprints, agent.LineBlueprint{
				ContactTypes: bp.ContactTypes,
				Priority:     bp.Priority,
				MaxOcc:       bp.MaxOcc,
			})
		}
	}

	created := make([]*agent.Agent, 0, numAgents)
	for i := 0; i < numAgents; i++ {
		s.nextAgentSeq++
		id := fmt.Sprintf("agent-%d", s.nextAgentSeq)
		a := agent.New(id, "", lineBlueprints, perf(), 0)
		s.pool.AddAgent(a)
		created = append(created, a)
	}
	return created
}

// GenerateIOFromCoverage enqueues agent-in/agent-out events from a
// coverage array: for each pair of consecutive values, the positive
// difference schedules that many agent-in events at interval*idx, a
// negative difference schedules |diff| agent-out events at
// interval*idx - wrapup. If set is non-nil, events reference its agents
// round-robin instead of leaving the agent unresolved until dispatch.
func (s *Simulator) GenerateIOFromCoverage(coverage []int, interval, wrapup float64, set []*agent.Agent) {
	for idx := 1; idx < len(coverage); idx++ {
		diff := coverage[idx] - coverage[idx-1]
		if diff > 0 {
			s.enqueueIO(event.KindAgentIn, diff, interval*float64(idx), set)
		} else if diff < 0 {
			s.enqueueIO(event.KindAgentOut, -diff, interval*float64(idx)-wrapup, set)
		}
	}
}

// GenerateBasicIO enqueues, for each (in, out) tuple at index idx, `in`
// agent-in events at interval*idx and `out` agent-out events at
// interval*idx - wrapup.
func (s *Simulator) GenerateBasicIO(ios [][2]int, interval, wrapup float64, set []*agent.Agent) {
	for idx, io := range ios {
		in, out := io[0], io[1]
		if in > 0 {
			s.enqueueIO(event.KindAgentIn, in, interval*float64(idx), set)
		}
		if out > 0 {
			s.enqueueIO(event.KindAgentOut, out, interval*float64(idx)-wrapup, set)
		}
	}
}

func (s *Simulator) enqueueIO(kind event.Kind, count int, at float64, set []*agent.Agent) {
	for i := 0; i < count; i++ {
		var item any
		if len(set) > 0 {
			item = set[i%len(set)]
		}
		s.k.AgentIOQueue.Add(event.NewFixed(item, kind, at))
	}
}

// AddArrivals Poisson-generates arrival events for contactType: for each
// of attempts trials, it exponential-samples inter-arrivals within each
// [interval*idx, interval*(idx+1)) bucket at mean rate
// volumes[idx]/interval, and keeps whichever trial's total count lands
// closest to sum(volumes). Generated contacts are inserted into the
// kernel's arrival queue sorted by time.
func (s *Simulator) AddArrivals(volumes []int, contactType string, interval float64, attempts int) error {
	ct, ok := s.types.Get(contactType)
	if !ok {
		return simerr.New(simerr.CodeUnknownType, fmt.Sprintf("unknown contact type %q", contactType))
	}

	target := 0
	for _, v := range volumes {
		target += v
	}
	if attempts < 1 {
		attempts = 1
	}

	var best []float64
	bestDiff := math.MaxInt64
	for attempt := 0; attempt < attempts; attempt++ {
		times := s.sampleArrivalTimes(volumes, interval)
		diff := len(times) - target
		if diff < 0 {
			diff = -diff
		}
		if best == nil || diff < bestDiff {
			best, bestDiff = times, diff
		}
	}

	sort.Float64s(best)
	for _, t := range best {
		s.nextContactSeq++
		id := fmt.Sprintf("%s-%d", contactType, s.nextContactSeq)
		htDistro := s.config.DefaultHandlingDistribution
		var patience, autoSolve *float64
		if ct.HasPatience {
			p := ct.AveragePatience
			patience = &p
		}
		if ct.HasAutoSolveTime {
			a := ct.AutoSolveTime
			autoSolve = &a
		}
		c := contact.New(s.rng, id, t, contactType, htDistro,
			valueOr(patience, 0), patience != nil,
			valueOr(autoSolve, 0), autoSolve != nil)
		s.k.ArrivalQueue.Add(event.NewFixed(c, event.KindArrival, t))
	}
	s.k.ArrivalQueue.Sort()
	return nil
}

func (s *Simulator) sampleArrivalTimes(volumes []int, interval float64) []float64 {
	var times []float64
	for idx, volume := range volumes {
		if volume <= 0 {
			continue
		}
		rate := float64(volume) / interval
		bucketStart := interval * float64(idx)
		bucketEnd := interval * float64(idx+1)
		t := bucketStart
		for {
			t += s.rng.ExpFloat64() / rate
			if t >= bucketEnd {
				break
			}
			times = append(times, t)
		}
	}
	return times
}

func valueOr(p *float64, fallback float64) float64 {
	if p == nil {
		return fallback
	}
	return *p
}

// Simulate runs the kernel to completion and returns the domain trace.
func (s *Simulator) Simulate() *tracelog.Log {
	simlog.Info("simulation_started: rand_seed=%d", s.config.RandSeed)
	s.k.ContactTypes = s.types.All()
	log := s.k.Run()
	simlog.Info("simulation_ended: handled=%d missed=%d", len(s.k.Handled), len(s.k.Missed))
	return log
}

// ResetSimulation discards all queued events and results but keeps
// contact types and agents in place.
func (s *Simulator) ResetSimulation() {
	s.resetKernel()
}

// ResetAgents disables every agent and clears their occupied lines,
// then rebuilds the kernel's queues.
func (s *Simulator) ResetAgents() {
	for _, a := range s.pool.Agents() {
		for _, l := range a.GetOccupiedLines() {
			_ = a.ClearLine(l)
		}
		if !a.Disabled {
			_ = a.DisableLines()
		}
	}
	s.resetKernel()
}

// GetHandled returns the contacts that reached StatusHandled, paired
// with the agent that handled them and the time their line freed.
func (s *Simulator) GetHandled() []kernel.HandledResult {
	return s.k.Handled
}

// GetMissed returns the contacts that terminalised abandoned (patience
// exhausted). The kernel's internal Missed list combines abandoned and
// auto-solved contacts (spec §4.6's single missed_contacts side
// channel); this accessor and GetSolved split that union into the two
// user-visible failure modes of spec §7.
func (s *Simulator) GetMissed() []*contact.Contact {
	var missed []*contact.Contact
	for _, c := range s.k.Missed {
		if c.Status == contact.StatusAbandoned {
			missed = append(missed, c)
		}
	}
	return missed
}

// GetSolved returns the contacts that terminalised auto-solved
// (auto-resolve threshold exceeded while waiting).
func (s *Simulator) GetSolved() []*contact.Contact {
	var solved []*contact.Contact
	for _, c := range s.k.Missed {
		if c.Status == contact.StatusAutoSolved {
			solved = append(solved, c)
		}
	}
	return solved
}

// Summary is a small derived view over the three result accessors: the
// aggregate counts a caller would otherwise compute by hand from
// GetHandled/GetMissed/GetSolved.
type Summary struct {
	Handled    int
	Abandoned  int
	AutoSolved int
}

// Summary computes aggregate counts from the current result lists. It
// introduces no new state - every field is a count already implicit in
// GetHandled/GetMissed/GetSolved.
func (s *Simulator) Summary() Summary {
	summary := Summary{Handled: len(s.k.Handled)}
	for _, c := range s.k.Missed {
		switch c.Status {
		case contact.StatusAutoSolved:
			summary.AutoSolved++
		default:
			summary.Abandoned++
		}
	}
	return summary
}
