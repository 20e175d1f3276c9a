package agent

import (
	"math/rand"
	"testing"

	"github.com/contactsim/core/pkg/contact"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLine_Occupy_RejectsWrongType(t *testing.T) {
	l := &Line{ContactTypes: map[string]bool{"basic": true}}
	rng := rand.New(rand.NewSource(1))
	c := contact.New(rng, "c1", 0, "chat", "gamma-2", 0, false, 0, false)

	err := l.Occupy(c)
	require.NotNil(t, err)
	assert.Equal(t, "SIM_2000", string(err.Code))
	assert.False(t, l.IsOccupied)
}

func TestLine_Occupy_RejectsAlreadyOccupied(t *testing.T) {
	l := &Line{ContactTypes: map[string]bool{"basic": true}}
	rng := rand.New(rand.NewSource(1))
	c1 := contact.New(rng, "c1", 0, "basic", "gamma-2", 0, false, 0, false)
	c2 := contact.New(rng, "c2", 0, "basic", "gamma-2", 0, false, 0, false)

	require.Nil(t, l.Occupy(c1))
	err := l.Occupy(c2)
	require.NotNil(t, err)
	assert.Equal(t, "SIM_2001", string(err.Code))
}

func TestLine_Solve_RejectsWhenNotOccupied(t *testing.T) {
	l := &Line{ContactTypes: map[string]bool{"basic": true}}
	err := l.Solve()
	require.NotNil(t, err)
	assert.Equal(t, "SIM_2002", string(err.Code))
}

func TestLine_WithinCap(t *testing.T) {
	cap := 2
	l := &Line{MaxOcc: &cap}
	assert.True(t, l.WithinCap(1))
	assert.False(t, l.WithinCap(2))

	unlimited := &Line{}
	assert.True(t, unlimited.WithinCap(1000))
}
