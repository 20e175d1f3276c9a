package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvent_FixedTime(t *testing.T) {
	e := NewFixed("x", KindArrival, 5)
	assert.Equal(t, 5.0, e.Time())
	assert.True(t, e.Is(KindArrival))
	assert.False(t, e.Is(KindHandling))
}

type mutableItem struct{ t float64 }

func TestEvent_DerivedTime_TracksItem(t *testing.T) {
	item := &mutableItem{t: 5}
	e := NewDerived(item, KindHandling, func(i any) float64 { return i.(*mutableItem).t })

	assert.Equal(t, 5.0, e.Time())
	item.t = 9
	assert.Equal(t, 9.0, e.Time(), "late-bound time must re-read the item")
}

func TestFIFOQueue_OrderPreserved(t *testing.T) {
	q := NewFIFO()
	q.Add(NewFixed("a", KindArrival, 10))
	q.Add(NewFixed("b", KindArrival, 1))

	e, err := q.PopNext()
	require.Nil(t, err)
	assert.Equal(t, "a", e.Item)

	e, err = q.PopNext()
	require.Nil(t, err)
	assert.Equal(t, "b", e.Item)

	_, err = q.PopNext()
	require.NotNil(t, err)
	assert.Equal(t, simerrEmptyCode, string(err.Code))
}

const simerrEmptyCode = "SIM_1000"

func TestFIFOQueue_PopCond(t *testing.T) {
	q := NewFIFO()
	q.Add(NewFixed("a", KindArrival, 1))
	q.Add(NewFixed("b", KindArrival, 2))

	e, err := q.PopCond(func(e *Event) bool { return e.Item == "b" })
	require.Nil(t, err)
	assert.Equal(t, "b", e.Item)
	assert.Equal(t, 1, q.Len())

	_, err = q.PopCond(func(e *Event) bool { return e.Item == "zzz" })
	require.NotNil(t, err)
}

func TestTimeQueue_PopsMinByTime(t *testing.T) {
	q := NewTimeOrdered()
	q.Add(NewFixed("late", KindHandling, 10))
	q.Add(NewFixed("early", KindHandling, 1))

	e, err := q.PopNext()
	require.Nil(t, err)
	assert.Equal(t, "early", e.Item)

	e, err = q.PopNext()
	require.Nil(t, err)
	assert.Equal(t, "late", e.Item)
}

func TestTimeQueue_PopCond_WrongMode(t *testing.T) {
	q := NewTimeOrdered()
	q.Add(NewFixed("a", KindHandling, 1))

	_, err := q.PopCond(func(e *Event) bool { return true })
	require.NotNil(t, err)
	assert.Equal(t, "SIM_1001", string(err.Code))
}

func TestTimeQueue_LateBoundReordersOnPeek(t *testing.T) {
	q := NewTimeOrdered()
	a := &mutableItem{t: 5}
	b := &mutableItem{t: 3}
	q.Add(NewDerived(a, KindHandling, func(i any) float64 { return i.(*mutableItem).t }))
	q.Add(NewDerived(b, KindHandling, func(i any) float64 { return i.(*mutableItem).t }))

	e, err := q.PeekNext()
	require.Nil(t, err)
	assert.Same(t, b, e.Item)

	b.t = 100 // rescale stretches b's projected end past a's
	e, err = q.PeekNext()
	require.Nil(t, err)
	assert.Same(t, a, e.Item)
}
