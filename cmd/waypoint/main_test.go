package main

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/waypoint/pkg/domain"
)

// execute runs the CLI in-process with an isolated config.
func execute(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func noConfig(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.yaml")
}

func fileStoreConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "waypoint.yaml")
	content := "store:\n  backend: file\n  path: " + filepath.ToSlash(filepath.Join(dir, "journals")) + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestVersion(t *testing.T) {
	out, err := execute(t, noConfig(t), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "waypoint version ")
}

func TestDemo(t *testing.T) {
	out, err := execute(t, noConfig(t), "demo")
	require.NoError(t, err)
	assert.Contains(t, out, "possible: [packageItem getAddress addVoucher]")
	assert.Contains(t, out, "imagined: [packageItem getAddress getPayment addVoucher dispatchItem]")
	assert.Contains(t, out, "- dispatch to address 1 golden acres, norwich, payment was 5435334")
}

func TestPossiblesAndPlan_BuiltinShop(t *testing.T) {
	cfg := noConfig(t)

	out, err := execute(t, cfg, "possibles")
	require.NoError(t, err)
	assert.Equal(t, "packageItem\ngetAddress\naddVoucher\n", out)

	out, err = execute(t, cfg, "plan")
	require.NoError(t, err)
	assert.Contains(t, out, "# Route to `dispatchItem`")
	assert.Contains(t, out, "1. **packageItem**")
	assert.Contains(t, out, "Cost **5**")
}

func TestSessionPersistsAcrossCommands(t *testing.T) {
	cfg := fileStoreConfig(t)

	out, err := execute(t, cfg, "--session", "order-1", "step")
	require.NoError(t, err)
	assert.Contains(t, out, "committed: packageItem")

	out, err = execute(t, cfg, "--session", "order-1", "step")
	require.NoError(t, err)
	assert.Contains(t, out, "committed: getAddress")

	out, err = execute(t, cfg, "sessions")
	require.NoError(t, err)
	assert.Equal(t, "order-1\n", out)

	out, err = execute(t, cfg, "--session", "order-1", "run")
	require.NoError(t, err)
	assert.Contains(t, out, "1. getPayment\n2. addVoucher\n3. dispatchItem\n")
	assert.Contains(t, out, "goal reached: dispatchItem (cost 5, 3 searches")

	out, err = execute(t, cfg, "--session", "order-1", "sessions", "--delete")
	require.NoError(t, err)
	assert.Equal(t, "deleted order-1\n", out)

	out, err = execute(t, cfg, "sessions")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRun_StepLimit(t *testing.T) {
	out, err := execute(t, noConfig(t), "--max-steps", "2", "run")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStepLimit)
	assert.Equal(t, "1. packageItem\n2. getAddress\n", out)
}

func TestPlan_BudgetExhausted(t *testing.T) {
	_, err := execute(t, noConfig(t), "--max-depth", "2", "plan")
	assert.ErrorIs(t, err, domain.ErrBudgetExhausted)
}

func TestCatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "door.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: door
goal: enter
initial:
  locked: true
actions:
  - name: enter
    requires: {open: true, inside: null}
    effects: {inside: true}
  - name: unlock
    requires: {locked: true}
    effects: {locked: false}
  - name: open
    requires: {locked: false, open: null}
    effects: {open: true}
`), 0644))

	out, err := execute(t, noConfig(t), "--catalog", path, "run")
	require.NoError(t, err)
	assert.Contains(t, out, "1. unlock\n2. open\n3. enter\n")

	out, err = execute(t, noConfig(t), "--catalog", path, "graph")
	require.NoError(t, err)
	assert.Contains(t, out, "graph TD")
	assert.Contains(t, out, "unlock")

	out, err = execute(t, noConfig(t), "--catalog", path, "graph", "--route")
	require.NoError(t, err)
	assert.Contains(t, out, "graph LR")
}

func TestInvalidFlags(t *testing.T) {
	_, err := execute(t, noConfig(t), "--store", "etcd", "possibles")
	assert.ErrorContains(t, err, "unknown store backend")

	_, err = execute(t, noConfig(t), "--catalog", filepath.Join(t.TempDir(), "missing.yaml"), "plan")
	assert.ErrorContains(t, err, "catalog not found")

	_, err = execute(t, noConfig(t), "sessions", "--delete")
	assert.ErrorContains(t, err, "--delete requires --session")
}

func TestEncryptedFileStore(t *testing.T) {
	dir := t.TempDir()
	journals := filepath.Join(dir, "journals")
	cfg := filepath.Join(dir, "waypoint.yaml")
	key := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{9}, 32))
	content := "store:\n  backend: file\n  path: " + filepath.ToSlash(journals) + "\n  encryption_key: " + key + "\n"
	require.NoError(t, os.WriteFile(cfg, []byte(content), 0644))

	_, err := execute(t, cfg, "--session", "secret", "step")
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(journals, "secret.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "__encrypted__")
	assert.NotContains(t, string(raw), "packaged")

	out, err := execute(t, cfg, "--session", "secret", "step")
	require.NoError(t, err)
	assert.Contains(t, out, "committed: getAddress")
}

func TestValidate(t *testing.T) {
	out, err := execute(t, noConfig(t), "validate")
	require.NoError(t, err)
	assert.Equal(t, "Catalog 'shop' is valid: 5 actions, goal 'dispatchItem'\n", out)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: broken
goal: land
actions:
  - name: land
    requires: {flying: true}
`), 0644))
	_, err = execute(t, noConfig(t), "--catalog", path, "validate")
	assert.ErrorContains(t, err, "Goal 'land' can never become applicable")
}
