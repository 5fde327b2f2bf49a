package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folint/internal/ast"
	"folint/internal/sca"
)

func sample(t *testing.T) *Report {
	t.Helper()
	r := New("model.yaml")
	voc := ast.NewVocabulary(ast.Pos{Line: 1, Col: 1}, "V")
	th := &ast.Theory{Pos: ast.Pos{Line: 10, Col: 1}, Name: "T"}

	y := ast.NewVariable(ast.Pos{Line: 12, Col: 9}, "y", nil)
	arg := &ast.CallArg{Pos: ast.Pos{Line: 20, Col: 20}, Name: "X"}

	r.Add(voc, nil)
	r.Add(th, []sca.Diagnostic{
		{Node: y, Message: "Unused variable y", Severity: sca.Warning, Code: sca.CodeUnusedVariable},
		{Node: ast.Pos{Line: 13, Col: 4}, Message: "Wrong number of arguments: given 2 but expected 1", Severity: sca.Error, Code: sca.CodeArity},
	})
	r.Add(&ast.Procedure{Name: "main"}, []sca.Diagnostic{
		{Node: arg, Message: "Unknown block X", Severity: sca.Warning, Code: sca.CodeUnknownBlock},
	})
	return r
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sample(t), Options{}))

	want := `
---------- Vocabulary Check ----------
----- V
-- Errors: 0
-- Warnings: 0

---------- Structure Check ----------

---------- Theory Check ----------
----- T
-- Errors: 1
Error: line 13 - colStart 4 - colEnd 4 => Wrong number of arguments: given 2 but expected 1
-- Warnings: 1
Warning: line 12 - colStart 9 - colEnd 10 => Unused variable y

---------- Procedure Check ----------
----- main
-- Errors: 0
-- Warnings: 1
Warning: line 20 - colStart 20 - colEnd 21 => Unknown block X
`
	assert.Equal(t, want, buf.String())
}

func TestWriteTextWithFilenameAndTiming(t *testing.T) {
	r := sample(t)
	r.Elapsed = 1500 * time.Millisecond

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, r, Options{Format: FormatText, AddFilename: true, Timing: true}))
	out := buf.String()
	assert.Contains(t, out, "model.yaml: Warning: line 12 - colStart 9 - colEnd 10 => Unused variable y\n")
	assert.Contains(t, out, "\nElapsed time: 1.500000 seconds\n")
}

func TestWriteColor(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sample(t), Options{Color: true}))
	assert.Contains(t, buf.String(), "Unknown block X")
}

func TestSyntaxErrorSection(t *testing.T) {
	r := New("bad.yaml")
	r.Fail(fmt.Errorf("theory T: %w", ast.ErrorAt(ast.Pos{Line: 4, Col: 7}, "Symbol not in vocabulary: q")))
	r.Fail(errors.New("yaml: mapping values are not allowed"))
	assert.True(t, r.HasErrors())

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, r, Options{AddFilename: true}))
	out := buf.String()
	assert.Contains(t, out, "---------- Syntax Error ----------\n"+
		"bad.yaml: Error: line 4 - colStart 7 - colEnd 7 => Symbol not in vocabulary: q\n"+
		"bad.yaml: Error: line 0 - colStart 0 - colEnd 0 => yaml: mapping values are not allowed\n")
}

func TestHasErrorsAndCounts(t *testing.T) {
	r := sample(t)
	assert.True(t, r.HasErrors())
	errs, warnings := r.Counts()
	assert.Equal(t, 1, errs)
	assert.Equal(t, 2, warnings)

	clean := New("ok.yaml")
	clean.Add(&ast.Theory{Name: "T"}, []sca.Diagnostic{{Message: "w", Severity: sca.Warning}})
	assert.False(t, clean.HasErrors())
}

func TestWriteJSON(t *testing.T) {
	r := sample(t)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, r, Options{Format: FormatJSON, AddFilename: true}))

	var got jsonReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	_, err := uuid.Parse(got.RunID)
	require.NoError(t, err)
	assert.Equal(t, r.RunID, got.RunID)
	assert.Equal(t, "model.yaml", got.File)
	require.Len(t, got.Blocks, 3)

	th := got.Blocks[1]
	assert.Equal(t, "Theory", th.Kind)
	require.Len(t, th.Errors, 1)
	assert.Equal(t, jsonDiagnostic{
		Severity: "Error",
		Code:     sca.CodeArity,
		Message:  "Wrong number of arguments: given 2 but expected 1",
		Location: sca.Location{Line: 13, ColStart: 4, ColEnd: 4},
	}, th.Errors[0])
	assert.Equal(t, 10, th.Warnings[0].ColEnd)
}

func TestUnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, New("x"), Options{Format: "xml"})
	assert.EqualError(t, err, `unknown report format "xml"`)
}
