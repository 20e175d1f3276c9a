package sim

import (
	"testing"

	"github.com/contactsim/core/pkg/simconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddContactType_RejectsInvalidBase(t *testing.T) {
	s := New(simconfig.Config{RandSeed: 1})
	err := s.AddContactType("basic", 0, 0, nil, nil)
	require.Error(t, err)
}

func TestAddContactType_ListRemove(t *testing.T) {
	s := New(simconfig.Config{RandSeed: 1})
	require.NoError(t, s.AddContactType("basic", 10, 0, nil, nil))
	assert.ElementsMatch(t, []string{"basic"}, s.ListContactTypes())

	s.RemoveContactType("basic")
	assert.Empty(t, s.ListContactTypes())
}

func TestAddAgents_CreatesDisabledAgentsWithPerformanceFromCallback(t *testing.T) {
	s := New(simconfig.Config{RandSeed: 1})
	calls := 0
	agents := s.AddAgents([]AgentBlueprint{
		{NumLines: 2, ContactTypes: []string{"basic"}, Priority: 1},
	}, 3, func() float64 {
		calls++
		return 1.0
	})

	require.Len(t, agents, 3)
	assert.Equal(t, 3, calls)
	for _, a := range agents {
		assert.True(t, a.Disabled)
		assert.Len(t, a.Lines, 2)
	}
}

func TestGenerateIOFromCoverage_PositiveAndNegativeDiffs(t *testing.T) {
	s := New(simconfig.Config{RandSeed: 1})
	agents := s.AddAgents([]AgentBlueprint{{NumLines: 1, ContactTypes: []string{"basic"}, Priority: 1}}, 2, func() float64 { return 1 })

	// coverage goes 0 -> 2 (two agent-ins) -> 0 (two agent-outs)
	s.GenerateIOFromCoverage([]int{0, 2, 0}, 10, 1, agents)

	assert.Equal(t, 4, s.k.AgentIOQueue.Len())
}

func TestGenerateBasicIO_SchedulesInAndOut(t *testing.T) {
	s := New(simconfig.Config{RandSeed: 1})
	s.GenerateBasicIO([][2]int{{2, 0}, {0, 1}}, 10, 1, nil)

	assert.Equal(t, 3, s.k.AgentIOQueue.Len())
}

func TestAddArrivals_UnknownType_Errors(t *testing.T) {
	s := New(simconfig.Config{RandSeed: 1})
	err := s.AddArrivals([]int{5}, "nope", 10, 3)
	require.Error(t, err)
}

func TestAddArrivals_GeneratesArrivalsSortedByTime(t *testing.T) {
	s := New(simconfig.Config{RandSeed: 1})
	require.NoError(t, s.AddContactType("basic", 10, 0, nil, nil))

	require.NoError(t, s.AddArrivals([]int{5, 5}, "basic", 10, 5))
	assert.Greater(t, s.k.ArrivalQueue.Len(), 0)
}

func TestSimulate_EndToEnd_SingleAgentSingleArrival(t *testing.T) {
	s := New(simconfig.Config{RandSeed: 1})
	require.NoError(t, s.AddContactType("basic", 10, 0, nil, nil))
	agents := s.AddAgents([]AgentBlueprint{{NumLines: 1, ContactTypes: []string{"basic"}, Priority: 1}}, 1, func() float64 { return 1 })
	s.GenerateIOFromCoverage([]int{0, 1}, 1, 0, agents)
	require.NoError(t, s.AddArrivals([]int{1}, "basic", 1, 3))

	log := s.Simulate()
	assert.Greater(t, log.Len(), 0)

	summary := s.Summary()
	assert.Equal(t, summary.Handled, len(s.GetHandled()))
	assert.Equal(t, summary.Abandoned, len(s.GetMissed()))
	assert.Equal(t, summary.AutoSolved, len(s.GetSolved()))
}

func TestResetSimulation_ClearsResultsButKeepsAgents(t *testing.T) {
	s := New(simconfig.Config{RandSeed: 1})
	require.NoError(t, s.AddContactType("basic", 10, 0, nil, nil))
	agents := s.AddAgents([]AgentBlueprint{{NumLines: 1, ContactTypes: []string{"basic"}, Priority: 1}}, 1, func() float64 { return 1 })
	s.GenerateIOFromCoverage([]int{0, 1}, 1, 0, agents)
	require.NoError(t, s.AddArrivals([]int{1}, "basic", 1, 3))
	s.Simulate()

	s.ResetSimulation()
	assert.Equal(t, 0, len(s.GetHandled()))
	assert.Equal(t, 0, len(s.GetMissed()))
	assert.Equal(t, 1, s.pool.Len(), "agents survive a simulation-only reset")
}

func TestResetAgents_DisablesAndClearsOccupation(t *testing.T) {
	s := New(simconfig.Config{RandSeed: 1})
	agents := s.AddAgents([]AgentBlueprint{{NumLines: 1, ContactTypes: []string{"basic"}, Priority: 1}}, 1, func() float64 { return 1 })
	require.Nil(t, agents[0].EnableLines(0))

	s.ResetAgents()
	assert.True(t, agents[0].Disabled)
}
