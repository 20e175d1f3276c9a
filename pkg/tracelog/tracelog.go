// Package tracelog implements Log: the simulation's append-only domain
// trace of (time, action, item_type, item_id) records, per spec §2/§6.
// This is distinct from package simlog, which carries the kernel's own
// operational diagnostics - tracelog is simulation output, not logging.
package tracelog

// ItemType is the kind of domain object a Record refers to.
type ItemType string

const (
	ItemSimulation ItemType = "simulation"
	ItemContact    ItemType = "contact"
	ItemAgent      ItemType = "agent"
)

// Action is one of the recognised trace actions from spec §6.
type Action string

const (
	ActionSimulationStarted    Action = "simulation_started"
	ActionSimulationEnded      Action = "simulation_ended"
	ActionArrival              Action = "arrival"
	ActionMaterialisedHandling Action = "materialised_handling"
	ActionAgentLineOccupied    Action = "agent_line_occupied"
	ActionUpdatedHandling      Action = "updated_handling"
	ActionContactWaiting       Action = "contact_waiting"
	ActionContactHandled       Action = "contact_handled"
	ActionAgentLineFreed       Action = "agent_line_freed"
	ActionCheckWaitingQueue    Action = "check_waiting_queue"
	ActionContactMissed        Action = "contact_missed"
	ActionAgentIn              Action = "agent_in"
	ActionAgentOut             Action = "agent_out"
)

// Record is a single trace entry.
type Record struct {
	Time     float64
	Action   Action
	ItemType ItemType
	ItemID   string
}

// Log is an append-only sequence of Records.
type Log struct {
	records []Record
}

// New returns an empty Log.
func New() *Log {
	return &Log{}
}

// Append adds a record to the log.
func (l *Log) Append(time float64, action Action, itemType ItemType, itemID string) {
	l.records = append(l.records, Record{Time: time, Action: action, ItemType: itemType, ItemID: itemID})
}

// Records returns the log's records in append order.
func (l *Log) Records() []Record {
	return l.records
}

// Len returns the number of records in the log.
func (l *Log) Len() int {
	return len(l.records)
}
