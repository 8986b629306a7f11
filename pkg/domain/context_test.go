package domain_test

import (
	"errors"
	"testing"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct {
	Value int
	Tags  []string
}

func (c *counter) Clone() *counter {
	tags := make([]string, len(c.Tags))
	copy(tags, c.Tags)
	return &counter{Value: c.Value, Tags: tags}
}

func (c *counter) Cost() float64 { return float64(c.Value) }

var increment = domain.NewAction("inc",
	func(s *counter) bool { return s.Value < 3 },
	func(s *counter) {
		s.Value++
		s.Tags = append(s.Tags, "inc")
	},
)

func TestNewContext_EmptyHistory(t *testing.T) {
	ctx := domain.NewContext(&counter{})
	assert.NotNil(t, ctx.History)
	assert.Empty(t, ctx.History)
	assert.Equal(t, "", ctx.Last())
	assert.Equal(t, 0, ctx.Depth())
}

func TestContext_CloneIsIndependent(t *testing.T) {
	original := domain.NewContext(&counter{})
	original.Apply(increment)

	clone := original.Clone()
	clone.Apply(increment)

	assert.Equal(t, 1, original.State.Value, "original state must not see clone mutation")
	assert.Equal(t, []string{"inc"}, original.History)
	assert.Equal(t, []string{"inc"}, original.State.Tags)

	assert.Equal(t, 2, clone.State.Value)
	assert.Equal(t, []string{"inc", "inc"}, clone.History)
	assert.Equal(t, "inc", clone.Last())

	// Mutating the original after cloning must not leak into the clone either.
	original.Apply(increment)
	assert.Equal(t, 2, clone.State.Value)
	assert.Len(t, clone.History, 2)
}

func TestContext_CloneDoesNotShareHistoryBacking(t *testing.T) {
	original := domain.NewContext(&counter{})
	original.History = append(make([]string, 0, 8), "a")

	first := original.Clone()
	second := original.Clone()
	first.History = append(first.History, "b")
	second.History = append(second.History, "c")

	assert.Equal(t, []string{"a", "b"}, first.History)
	assert.Equal(t, []string{"a", "c"}, second.History)
	assert.Equal(t, []string{"a"}, original.History)
}

func TestNewAction_NilFuncs(t *testing.T) {
	noop := domain.NewAction[*counter]("noop", nil, nil)
	state := &counter{Value: 7}

	assert.Equal(t, "noop", noop.Name())
	assert.True(t, noop.Applicable(state))
	noop.Apply(state)
	assert.Equal(t, 7, state.Value)
}

func TestMissingActionError(t *testing.T) {
	var err error = &domain.MissingActionError{Name: "ghost"}

	assert.True(t, errors.Is(err, domain.ErrActionNotFound))
	assert.Contains(t, err.Error(), "ghost")

	var missing *domain.MissingActionError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "ghost", missing.Name)
}

func TestBudget_Normalize(t *testing.T) {
	b := domain.Budget{}.Normalize()
	assert.Equal(t, domain.DefaultMaxDepth, b.MaxDepth)
	assert.Equal(t, domain.DefaultMaxNodes, b.MaxNodes)

	custom := domain.Budget{MaxDepth: -1, MaxNodes: 10}.Normalize()
	assert.Equal(t, -1, custom.MaxDepth)
	assert.Equal(t, 10, custom.MaxNodes)
}

func TestSearchResult_Err(t *testing.T) {
	found := &domain.SearchResult[*counter]{Outcome: domain.OutcomeFound, Route: domain.NewContext(&counter{})}
	assert.True(t, found.Found())
	assert.NoError(t, found.Err())

	none := &domain.SearchResult[*counter]{Outcome: domain.OutcomeNoRoute}
	assert.False(t, none.Found())
	assert.ErrorIs(t, none.Err(), domain.ErrNoRoute)

	exhausted := &domain.SearchResult[*counter]{Outcome: domain.OutcomeBudgetExhausted, Route: domain.NewContext(&counter{})}
	assert.False(t, exhausted.Found())
	assert.ErrorIs(t, exhausted.Err(), domain.ErrBudgetExhausted)
}
