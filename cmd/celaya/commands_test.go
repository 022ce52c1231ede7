package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/while-basic/celaya-parachain-sub001/core"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := newRootCommand()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--log-level", "error"}, args...))

	err := root.Execute()

	return out.String(), err
}

func TestRun_ManageConsensus(t *testing.T) {
	out, err := execute(t, "run", "manage_consensus", "-a",
		`{"topic":"t","agent_inputs":{"a":{"confidence":0.9,"reliability_score":0.8,"recommendation":"accept"}}}`)
	require.NoError(t, err)

	var res core.ConsensusResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, core.ConsensusUnanimous, res.ConsensusType)
	assert.InDelta(t, 0.72, res.ConsensusScore, 1e-9)
}

func TestRun_UnknownOperation(t *testing.T) {
	_, err := execute(t, "run", "launch_rocket")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestBatch_VoteFlow(t *testing.T) {
	dir := t.TempDir()
	steps := filepath.Join(dir, "steps.jsonl")

	require.NoError(t, os.WriteFile(steps, []byte(strings.Join([]string{
		`# quorum vote`,
		`{"operation":"register_agent","args":{"agent_id":"echo"}}`,
		`{"label":"v","operation":"open_vote","args":{"topic":"t","proposal":"p","required_agents":["echo"]}}`,
		`{"operation":"cast_vote","args":{"session_id":"$v.session_id","agent_id":"echo","vote":true}}`,
	}, "\n")), 0o600))

	ledgerDir := filepath.Join(dir, "ledger")

	out, err := execute(t, "--ledger-dir", ledgerDir, "batch", steps)
	require.NoError(t, err)

	var results []stepResult

	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		var r stepResult
		require.NoError(t, json.Unmarshal(sc.Bytes(), &r))
		results = append(results, r)
	}

	require.Len(t, results, 3)
	assert.Empty(t, results[2].Error)
	assert.Equal(t, "passed", results[2].Result.(map[string]any)["status"])

	files, err := os.ReadDir(ledgerDir)
	require.NoError(t, err)
	assert.Len(t, files, 1)

	out, err = execute(t, "--ledger-dir", ledgerDir, "ledger", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "lyra_")
}

func TestBatch_StopsOnError(t *testing.T) {
	steps := filepath.Join(t.TempDir(), "steps.jsonl")
	require.NoError(t, os.WriteFile(steps, []byte(
		`{"operation":"vote_result","args":{"session_id":"missing"}}`+"\n"+
			`{"operation":"register_agent","args":{"agent_id":"echo"}}`), 0o600))

	out, err := execute(t, "batch", steps)
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.Equal(t, 1, strings.Count(out, "\n"))
	assert.Contains(t, out, `"kind":"not_found"`)
}

func TestResolve(t *testing.T) {
	labelled := map[string]map[string]any{"v": {"session_id": "s1"}}

	got, err := resolve(map[string]any{
		"session_id": "$v.session_id",
		"plain":      "$dollars",
		"nested":     []any{"$v.session_id"},
	}, labelled)
	require.NoError(t, err)
	assert.Equal(t, "s1", got["session_id"])
	assert.Equal(t, "$dollars", got["plain"])
	assert.Equal(t, []any{"s1"}, got["nested"])

	_, err = resolve(map[string]any{"x": "$w.id"}, labelled)
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = resolve(map[string]any{"x": "$v.id"}, labelled)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestPolicy(t *testing.T) {
	out, err := execute(t, "policy")
	require.NoError(t, err)
	assert.Contains(t, out, "quorum: 0.6")
}
