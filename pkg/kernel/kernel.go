// Package kernel implements the event-driven simulation dispatcher:
// the three interleaved scheduling queues (agent-IO, arrivals,
// handling) plus the reactive waiting queue, the three event handlers,
// and the drain helper that reassigns waiting contacts when an agent
// gains capacity. This is the core described in spec §4.5-4.6.
package kernel

import (
	"math"
	"math/rand"

	"github.com/contactsim/core/pkg/agent"
	"github.com/contactsim/core/pkg/agentpool"
	"github.com/contactsim/core/pkg/assert"
	"github.com/contactsim/core/pkg/contact"
	"github.com/contactsim/core/pkg/contacttype"
	"github.com/contactsim/core/pkg/event"
	"github.com/contactsim/core/pkg/simlog"
	"github.com/contactsim/core/pkg/tracelog"
)

// HandledResult pairs a handled Contact with the Agent that serviced it
// and the time its line was cleared.
type HandledResult struct {
	Contact  *contact.Contact
	Agent    *agent.Agent
	SolvedAt float64
}

// Kernel owns the scheduling state for one simulation run: the agent
// pool, the contact-type registry, the four queues, the trace log, and
// the single seeded RNG threaded through every sampling site.
type Kernel struct {
	Pool         *agentpool.AgentPool
	ContactTypes map[string]contacttype.ContactType

	ArrivalQueue  event.Queue
	HandlingQueue event.Queue
	AgentIOQueue  event.Queue
	WaitingQueue  event.Queue

	Log               *tracelog.Log
	Rng               *rand.Rand
	RoundingPrecision int

	Handled []HandledResult
	Missed  []*contact.Contact
}

// New builds a Kernel with fresh queues and an empty log, ready to have
// events added and Run called.
func New(pool *agentpool.AgentPool, contactTypes map[string]contacttype.ContactType, rng *rand.Rand, roundingPrecision int) *Kernel {
	return &Kernel{
		Pool:              pool,
		ContactTypes:      contactTypes,
		ArrivalQueue:      event.NewFIFO(),
		HandlingQueue:     event.NewTimeOrdered(),
		AgentIOQueue:      event.NewTimeOrdered(),
		WaitingQueue:      event.NewFIFO(),
		Log:               tracelog.New(),
		Rng:               rng,
		RoundingPrecision: roundingPrecision,
	}
}

// Run executes the main loop to completion: repeatedly dispatch the
// earliest of the three scheduling queues' heads until all three are
// exhausted. Ties favor agent-IO, then arrivals, then handling, per
// spec §4.5 step 3.
func (k *Kernel) Run() *tracelog.Log {
	k.Log.Append(0, tracelog.ActionSimulationStarted, tracelog.ItemSimulation, "simulation")

	lastTime := 0.0
	prevDispatched := math.Inf(-1)
	for {
		ioEvt, ioErr := k.AgentIOQueue.PeekNext()
		arrEvt, arrErr := k.ArrivalQueue.PeekNext()
		hEvt, hErr := k.HandlingQueue.PeekNext()

		ioTime, arrTime, hTime := math.Inf(1), math.Inf(1), math.Inf(1)
		if ioErr == nil {
			ioTime = ioEvt.Time()
		}
		if arrErr == nil {
			arrTime = arrEvt.Time()
		}
		if hErr == nil {
			hTime = hEvt.Time()
		}

		if math.IsInf(ioTime, 1) && math.IsInf(arrTime, 1) && math.IsInf(hTime, 1) {
			break
		}

		min, source := ioTime, 0
		if arrTime < min {
			min, source = arrTime, 1
		}
		if hTime < min {
			min, source = hTime, 2
		}
		assert.Assertf(func() bool { return min >= prevDispatched }, "dispatched event time %v went backwards from %v", min, prevDispatched)
		prevDispatched = min
		lastTime = min

		switch source {
		case 0:
			evt, _ := k.AgentIOQueue.PopNext()
			k.handleAgentIO(evt)
		case 1:
			evt, _ := k.ArrivalQueue.PopNext()
			k.handleArrival(evt)
		case 2:
			evt, _ := k.HandlingQueue.PopNext()
			k.handleCompletion(evt)
		}
	}

	k.Log.Append(lastTime, tracelog.ActionSimulationEnded, tracelog.ItemSimulation, "simulation")
	return k.Log
}

func (k *Kernel) handleArrival(evt *event.Event) {
	present := evt.Time()
	c := evt.Item.(*contact.Contact)
	k.Log.Append(present, tracelog.ActionArrival, tracelog.ItemContact, c.ID)

	a := k.Pool.FindBestAvailAgent(c.ContactType)
	if a == nil {
		k.WaitingQueue.Add(event.NewFixed(c, event.KindWaiting, c.Arrival))
		k.Log.Append(present, tracelog.ActionContactWaiting, tracelog.ItemContact, c.ID)
		return
	}

	ct := k.ContactTypes[c.ContactType]
	k.assign(c, a, ct, present, nil)
}

// assign materialises c's handling at present against agent a, rescales
// a's other in-flight contacts for the new concurrency, and occupies
// line (or, if nil, whichever line Agent.OccupyLine selects). Shared by
// the arrival handler and the drain helper, which differ only in
// whether a specific line is already chosen.
func (k *Kernel) assign(c *contact.Contact, a *agent.Agent, ct contacttype.ContactType, present float64, line *agent.Line) {
	occupiedBefore := a.OccupiedLines()
	concNew := occupiedBefore + 1
	aht := ct.AHT(a.PerformanceFactor, concNew)

	c.MaterialiseHandling(k.Rng, &present, aht, concNew)
	k.Log.Append(present, tracelog.ActionMaterialisedHandling, tracelog.ItemContact, c.ID)

	if c.Status != contact.StatusHandled {
		k.Missed = append(k.Missed, c)
		k.Log.Append(present, tracelog.ActionContactMissed, tracelog.ItemContact, c.ID)
		return
	}

	// Rescale the agent's already-occupied lines for the new concurrency.
	// Per spec §9's open question, the denominator uses occupied_lines-1
	// from *before* this contact is added; when the agent was idle that
	// denominator term is never evaluated because GetOccupiedLines() is
	// empty, so the loop body simply never runs.
	if occupiedBefore > 0 {
		numerator := ct.Base + float64(concNew-1)*ct.Increment
		denominator := ct.Base + float64(occupiedBefore-1)*ct.Increment
		factor := numerator / denominator
		for _, l := range a.GetOccupiedLines() {
			if err := l.Contact.UpdateHandling(present, factor, concNew); err != nil {
				simlog.Debug("skipped rescale on arrival: code=%s contact_id=%s", err.Code, l.Contact.ID)
				continue
			}
			k.Log.Append(present, tracelog.ActionUpdatedHandling, tracelog.ItemContact, l.Contact.ID)
		}
	}

	occupied := a.OccupyLine(c, line)
	if occupied == nil {
		simlog.Warn("no eligible line for contact despite availability: contact_id=%s agent_id=%s", c.ID, a.ID)
		return
	}
	k.Log.Append(present, tracelog.ActionAgentLineOccupied, tracelog.ItemAgent, a.ID)
	assert.Assertf(func() bool { return a.OccupiedLines() == len(a.GetOccupiedLines()) },
		"agent %s occupied-line count %d diverges from actual occupied lines %d", a.ID, a.OccupiedLines(), len(a.GetOccupiedLines()))

	precision := k.RoundingPrecision
	k.HandlingQueue.Add(event.NewDerived(occupied, event.KindHandling, func(item any) float64 {
		l := item.(*agent.Line)
		end, _ := l.Contact.EndAt()
		return round(end, precision)
	}))
}

func (k *Kernel) handleCompletion(evt *event.Event) {
	present := evt.Time()
	line := evt.Item.(*agent.Line)
	a := line.Agent()
	c := line.Contact
	ct := k.ContactTypes[c.ContactType]

	if err := a.ClearLine(line); err != nil {
		simlog.Debug("clear line failed: code=%s", err.Code)
		return
	}
	k.Log.Append(present, tracelog.ActionAgentLineFreed, tracelog.ItemAgent, a.ID)

	k.Handled = append(k.Handled, HandledResult{Contact: c, Agent: a, SolvedAt: present})
	k.Log.Append(present, tracelog.ActionContactHandled, tracelog.ItemContact, c.ID)

	// Rescale remaining in-flight contacts for the post-decrement
	// concurrency. Per spec §9's open question, both numerator and
	// denominator consume the already-decremented value - the source
	// never reintroduces the pre-decrement count here.
	newConc := a.OccupiedLines()
	if newConc > 0 {
		numerator := ct.Base + float64(newConc-1)*ct.Increment
		denominator := ct.Base + float64(newConc)*ct.Increment
		factor := numerator / denominator
		for _, l := range a.GetOccupiedLines() {
			if err := l.Contact.UpdateHandling(present, factor, newConc); err != nil {
				simlog.Debug("skipped rescale on completion: code=%s contact_id=%s", err.Code, l.Contact.ID)
				continue
			}
			k.Log.Append(present, tracelog.ActionUpdatedHandling, tracelog.ItemContact, l.Contact.ID)
		}
	}

	k.checkWaiting(a, present)
}

func (k *Kernel) handleAgentIO(evt *event.Event) {
	present := evt.Time()
	a, _ := evt.Item.(*agent.Agent)

	if a == nil {
		switch evt.Kind {
		case event.KindAgentIn:
			a = k.Pool.SampleDisabled(k.Rng)
		case event.KindAgentOut:
			a = k.Pool.FindEarliestIn()
		}
		if a == nil {
			simlog.Debug("agent-io event with no eligible agent: kind=%s", evt.Kind)
			return
		}
	}

	switch evt.Kind {
	case event.KindAgentOut:
		if err := a.DisableLines(); err != nil {
			simlog.Debug("disable failed: code=%s", err.Code)
			return
		}
		k.Log.Append(present, tracelog.ActionAgentOut, tracelog.ItemAgent, a.ID)
	case event.KindAgentIn:
		if err := a.EnableLines(present); err != nil {
			simlog.Debug("enable failed: code=%s", err.Code)
			return
		}
		k.Log.Append(present, tracelog.ActionAgentIn, tracelog.ItemAgent, a.ID)
		k.checkWaiting(a, present)
	}
}

// checkWaiting is the drain helper of spec §4.6: after a snapshots
// a's lines in shuffled-then-priority order, it repeatedly pulls the
// first FIFO-eligible waiting contact per line until the line is taken
// or no eligible contact remains.
func (k *Kernel) checkWaiting(a *agent.Agent, present float64) {
	k.Log.Append(present, tracelog.ActionCheckWaitingQueue, tracelog.ItemAgent, a.ID)

	for _, line := range a.ShuffledLinesByPriority(k.Rng.Shuffle) {
		for !a.Disabled && line.Open && !line.IsOccupied && line.WithinCap(a.OccupiedLines()) {
			evt, err := k.WaitingQueue.PopCond(func(e *event.Event) bool {
				c := e.Item.(*contact.Contact)
				return line.AcceptsType(c.ContactType)
			})
			if err != nil {
				break
			}
			c := evt.Item.(*contact.Contact)

			if c.CheckMissed(present) {
				c.MaterialiseHandling(k.Rng, &present, 0, 0)
				k.Missed = append(k.Missed, c)
				k.Log.Append(present, tracelog.ActionContactMissed, tracelog.ItemContact, c.ID)
				continue
			}

			ct := k.ContactTypes[c.ContactType]
			k.assign(c, a, ct, present, line)
			break
		}
	}
}

func round(v float64, precision int) float64 {
	p := math.Pow(10, float64(precision))
	return math.Round(v*p) / p
}
