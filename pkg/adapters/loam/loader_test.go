package loam

import (
	"context"
	"testing"

	"github.com/aretw0/loam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/waypoint/internal/testutils"
	contract "github.com/aretw0/waypoint/pkg/ports/tests"
)

var doorFiles = map[string]string{
	"catalog.md": `---
type: catalog
name: door
goal: enter
initial:
  locked: true
---
Get through a locked door.`,
	"unlock.md": `---
order: 1
requires:
  locked: true
effects:
  locked: false
---
Turn the key.`,
	"open.md": `---
order: 2
requires:
  locked: false
  open: null
effects:
  open: true
---
Push the door.`,
	"enter.md": `---
name: enter
order: 3
cost: 2
requires:
  open: true
---
Step inside.`,
}

func TestLoader_Load(t *testing.T) {
	tmpDir, repo := testutils.SetupTestRepo(t)
	testutils.WriteFiles(t, tmpDir, doorFiles)

	loader := New(loam.NewTypedRepository[ActionMetadata](repo))
	c, err := loader.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "door", c.Name)
	assert.Equal(t, "enter", c.Goal)
	assert.Equal(t, "Get through a locked door.", c.Description)

	names := make([]string, len(c.Actions))
	for i, a := range c.Actions {
		names[i] = a.Name
	}
	assert.Equal(t, []string{"unlock", "open", "enter"}, names)

	enter, ok := c.Spec("enter")
	require.True(t, ok)
	assert.Equal(t, 2.0, enter.EffectiveCost())
	assert.Equal(t, "Step inside.", enter.Description)

	p := c.NewPlanner()
	report, err := p.Run(context.Background(), c.Goal)
	require.NoError(t, err)
	assert.Equal(t, []string{"unlock", "open", "enter"}, report.Committed)
	assert.Equal(t, 4.0, p.RealContext().State.Cost())
}

func TestLoader_Load_WithoutHeader(t *testing.T) {
	tmpDir, repo := testutils.SetupTestRepo(t)
	testutils.WriteFiles(t, tmpDir, map[string]string{
		"b.md": "---\neffects:\n  done: true\n---\n",
		"a.md": "---\nrequires:\n  done: null\n---\n",
	})

	loader := New(loam.NewTypedRepository[ActionMetadata](repo))
	c, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, c.Actions, 2)
	assert.Equal(t, "a", c.Actions[0].Name)
	assert.Equal(t, "b", c.Actions[1].Name)
	assert.Empty(t, c.Goal)
}

func TestLoader_Load_DetectsCollisions(t *testing.T) {
	tmpDir, repo := testutils.SetupTestRepo(t)
	testutils.WriteFiles(t, tmpDir, map[string]string{
		"one.md": "---\nname: same\n---\n",
		"two.md": "---\nname: same\n---\n",
	})

	loader := New(loam.NewTypedRepository[ActionMetadata](repo))
	_, err := loader.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collision detected")
	assert.Contains(t, err.Error(), "same")
}

func TestLoader_Load_RejectsUnknownGoal(t *testing.T) {
	tmpDir, repo := testutils.SetupTestRepo(t)
	testutils.WriteFiles(t, tmpDir, map[string]string{
		"catalog.md": "---\ntype: catalog\ngoal: missing\n---\n",
		"a.md":       "---\nname: a\n---\n",
	})

	loader := New(loam.NewTypedRepository[ActionMetadata](repo))
	_, err := loader.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "goal 'missing'")
}

func TestLoader_Contract(t *testing.T) {
	tmpDir, repo := testutils.SetupTestRepo(t)
	testutils.WriteFiles(t, tmpDir, doorFiles)

	loader := New(loam.NewTypedRepository[ActionMetadata](repo))
	contract.CatalogLoaderContractTest(t, loader, []string{"unlock", "open", "enter"})
}
