package catalog

import (
	"time"

	"github.com/aretw0/waypoint/internal/runtime"
)

// JournalStatus is the lifecycle of a persisted planning session.
type JournalStatus string

const (
	JournalActive      JournalStatus = "active"
	JournalGoalReached JournalStatus = "goal_reached"
	JournalFailed      JournalStatus = "failed"
)

// Journal is the committed real context of a catalog planner session: the
// facts as they stand and the actions actually executed. Plans are never
// stored; they are recomputed from the journal on every step.
type Journal struct {
	ID        string        `json:"id"`
	Catalog   string        `json:"catalog"`
	Goal      string        `json:"goal,omitempty"`
	Facts     *Facts        `json:"facts"`
	History   []string      `json:"history"`
	Status    JournalStatus `json:"status"`
	LastError string        `json:"last_error,omitempty"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// NewJournal starts a session at the catalog's initial facts.
func NewJournal(id string, c *Catalog) *Journal {
	return &Journal{
		ID:        id,
		Catalog:   c.Name,
		Goal:      c.Goal,
		Facts:     c.InitialFacts(),
		History:   []string{},
		Status:    JournalActive,
		UpdatedAt: time.Now(),
	}
}

// Planner resumes the session: a planner over the catalog's actions whose real
// context is a copy of the journal's facts and history.
func (j *Journal) Planner(c *Catalog, opts ...runtime.Option) *runtime.Planner[*Facts] {
	facts := j.Facts
	if facts == nil {
		facts = c.InitialFacts()
	} else {
		facts = facts.Clone()
	}
	opts = append([]runtime.Option{runtime.WithHistory(j.History)}, opts...)
	return c.PlannerFrom(facts, opts...)
}

// Record copies the planner's real context back into the journal.
func (j *Journal) Record(p *runtime.Planner[*Facts], err error) {
	j.Facts = p.RealContext().State.Clone()
	j.History = p.History()
	j.UpdatedAt = time.Now()
	if err != nil {
		j.LastError = err.Error()
	} else {
		j.LastError = ""
	}
}

// Finish marks the journal according to a run's outcome.
func (j *Journal) Finish(goalReached bool, err error) {
	switch {
	case goalReached:
		j.Status = JournalGoalReached
	case err != nil:
		j.Status = JournalFailed
	default:
		j.Status = JournalActive
	}
}

// Clone returns a deep copy of the journal.
func (j *Journal) Clone() *Journal {
	c := *j
	if j.Facts != nil {
		c.Facts = j.Facts.Clone()
	}
	c.History = append([]string{}, j.History...)
	return &c
}
