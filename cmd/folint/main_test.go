package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"folint/internal/config"
	"folint/internal/logging"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const vocabulary = `
vocabularies:
  - name: V
    declarations:
      - type: Node
        constructors: [a, b, c]
      - symbol: [edge, reach]
        sorts: [Node, Node]
      - symbol: p
        sorts: [Node]
      - symbol: nat
        sorts: [Int]
theories:
  - name: T
    vocabulary: V
`

const reachDefinition = `
    definitions:
      - rules:
          - quantees: [{vars: [x, y], in: Node}]
            head: {apply: reach, args: [x, y]}
            body: {apply: edge, args: [x, y]}
          - quantees: [{vars: [x, y], in: Node}]
            head: {apply: reach, args: [x, y]}
            body:
              exists: [{vars: [z], in: Node}]
              body:
                op: "∧"
                operands: [{apply: reach, args: [x, z]}, {apply: edge, args: [z, y]}]
`

func writeModel(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// run executes the CLI with a configuration file that does not exist, so
// the defaults apply.
func run(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	cfg := filepath.Join(t.TempDir(), "missing.yaml")
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", cfg}, args...))
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func TestCheckClean(t *testing.T) {
	model := writeModel(t, "clean.yaml", vocabulary+reachDefinition+`
    constraints:
      - {apply: p, args: [a]}
`)
	out, err := run(t, context.Background(), "check", "--no-timing", model)
	require.NoError(t, err)
	assert.Contains(t, out, "---------- Theory Check ----------\n----- T\n-- Errors: 0\n-- Warnings: 0\n")
	assert.NotContains(t, out, "Elapsed time")
}

func TestCheckReportsErrors(t *testing.T) {
	model := writeModel(t, "bad.yaml", vocabulary+`
    constraints:
      - {apply: p, args: [a, b]}
`)
	out, err := run(t, context.Background(), "check", "--no-timing", "--add-filename", model)
	require.ErrorIs(t, err, errFindings)
	assert.Contains(t, out, "-- Errors: 1\n"+model+": Error: line ")
	assert.Contains(t, out, "=> Wrong number of arguments: given 2 but expected 1\n")
}

func TestCheckStructuralFailure(t *testing.T) {
	model := writeModel(t, "unknown.yaml", vocabulary+`
    constraints:
      - {apply: q, args: [a]}
`)
	out, err := run(t, context.Background(), "check", "--no-timing", model)
	require.ErrorIs(t, err, errFindings)
	assert.Contains(t, out, "---------- Syntax Error ----------\nError: line ")
	assert.NotContains(t, out, "----- T\n")
}

func TestCheckInfiniteInductiveDefinition(t *testing.T) {
	model := writeModel(t, "nat.yaml", vocabulary+`
    definitions:
      - rules:
          - quantees: [{vars: [x], in: Int}]
            head: {apply: nat, args: [x]}
            body: {apply: nat, args: [x]}
`)
	out, err := run(t, context.Background(), "check", "--no-timing", model)
	require.ErrorIs(t, err, errFindings)
	assert.Contains(t, out, "Cannot have inductive definitions on infinite domain")
}

func TestCheckUndecodableFile(t *testing.T) {
	model := writeModel(t, "broken.yaml", "a: b: c\n")
	out, err := run(t, context.Background(), "check", model)
	require.ErrorIs(t, err, errFindings)
	assert.Contains(t, out, "---------- Syntax Error ----------\n"+
		"Error: line 1 - colStart 1 - colEnd 1 => mapping values are not allowed in this context\n")
}

func TestCheckSeveralFilesKeepsOrder(t *testing.T) {
	first := writeModel(t, "first.yaml", vocabulary+`
    constraints:
      - {apply: p, args: [a]}
`)
	second := writeModel(t, "second.yaml", vocabulary+`
    constraints:
      - {apply: p, args: [a, b]}
`)
	out, err := run(t, context.Background(), "check", "--no-timing", "--add-filename", first, second)
	require.ErrorIs(t, err, errFindings)
	assert.Less(t, bytes.Index([]byte(out), []byte("-- Errors: 0")), bytes.Index([]byte(out), []byte(second+": Error")))
}

func TestCheckJSON(t *testing.T) {
	model := writeModel(t, "clean.yaml", vocabulary+`
    constraints:
      - {apply: p, args: [a]}
`)
	out, err := run(t, context.Background(), "check", "--format", "json", model)
	require.NoError(t, err)

	var got struct {
		RunID  string `json:"run_id"`
		Blocks []struct {
			Kind string `json:"kind"`
			Name string `json:"name"`
		} `json:"blocks"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.NotEmpty(t, got.RunID)
	require.Len(t, got.Blocks, 2)
	assert.Equal(t, "Theory", got.Blocks[1].Kind)
	assert.Equal(t, "T", got.Blocks[1].Name)
}

func TestCheckMissingFile(t *testing.T) {
	_, err := run(t, context.Background(), "check", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no files found matching")
}

func TestInvalidSemantics(t *testing.T) {
	model := writeModel(t, "clean.yaml", vocabulary)
	_, err := run(t, context.Background(), "--semantics", "stable", "check", model)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestCheckWatchStopsWithContext(t *testing.T) {
	model := writeModel(t, "clean.yaml", vocabulary+`
    constraints:
      - {apply: p, args: [a]}
`)
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	out, err := run(t, ctx, "check", "--no-timing", "--watch", model)
	require.NoError(t, err)
	assert.Contains(t, out, "----- T\n")
}

func TestComplete(t *testing.T) {
	model := writeModel(t, "reach.yaml", vocabulary+reachDefinition)
	out, err := run(t, context.Background(), "--semantics", "completion", "complete", model)
	require.NoError(t, err)
	assert.Contains(t, out, "-- theory T, definition 1 (completion)\nreach: ∀")
	assert.NotContains(t, out, "lvl_map")

	out, err = run(t, context.Background(), "complete", model)
	require.NoError(t, err)
	assert.Contains(t, out, "(wellfounded)")
	assert.Contains(t, out, "_reach_lvl_map(")
}

func TestCompleteStructuralFailure(t *testing.T) {
	model := writeModel(t, "unknown.yaml", vocabulary+`
    constraints:
      - {apply: q, args: [a]}
`)
	_, err := run(t, context.Background(), "complete", model)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Theory T: ")
}

func TestAST(t *testing.T) {
	model := writeModel(t, "reach.yaml", vocabulary+reachDefinition)
	out, err := run(t, context.Background(), "ast", model)
	require.NoError(t, err)
	assert.Contains(t, out, "vocabulary V\n")
	assert.Contains(t, out, "theory T:V\n")
	assert.Contains(t, out, "definition\n")
}

func TestExpandFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.yaml", "b.yaml", "c.json"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	files, err := expandFiles([]string{filepath.Join(dir, "*.yaml"), filepath.Join(dir, "c.json")})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.yaml"), filepath.Join(dir, "b.yaml"), filepath.Join(dir, "c.json")}, files)
}

func TestConfigPrintAndWrite(t *testing.T) {
	out, err := run(t, context.Background(), "--semantics", "coinduction", "config")
	require.NoError(t, err)
	assert.Contains(t, out, "semantics: coinduction\n")
	assert.Contains(t, out, "debounce: 300ms\n")

	path := filepath.Join(t.TempDir(), "conf", "folint.yaml")
	cmd := newRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--config", path, "--semantics", "completion", "config", "--write"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "wrote "+path+"\n", buf.String())

	saved, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "completion", saved.Semantics)
}

func TestCheckFileLogsEachStage(t *testing.T) {
	model := writeModel(t, "reach.yaml", vocabulary+reachDefinition)
	core, logs := observer.New(zapcore.DebugLevel)
	logging.Use(zap.New(core), logging.Options{})
	t.Cleanup(func() { logging.Use(zap.NewNop(), logging.Options{}) })

	a := &app{cfg: config.DefaultConfig()}
	res, err := a.checkFile(model)
	require.NoError(t, err)
	assert.False(t, res.report.HasErrors())

	assert.Equal(t, 1, logs.FilterLoggerName("load").FilterMessage("decoded "+model+": 2 blocks").Len())
	assert.Equal(t, 1, logs.FilterLoggerName("annotate").FilterMessage("annotated "+model+": 0 of 2 blocks failed").Len())
	assert.Equal(t, 1, logs.FilterLoggerName("complete").FilterMessage("theory T, definition 1: 1 completions").Len())

	summary := logs.FilterLoggerName("check").FilterMessage("0 errors, 0 warnings").All()
	require.Len(t, summary, 1)
	assert.Equal(t, model, summary[0].ContextMap()["file"])
}
