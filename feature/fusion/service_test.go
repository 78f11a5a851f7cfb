package fusion

import (
	"context"
	"testing"

	"datafusion/core/export"
	"datafusion/core/merge"
	"datafusion/core/reader"
	"datafusion/core/transform"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testService() *Service {
	return NewService(
		reader.New(reader.Config{MaxFileSizeMB: 10}),
		merge.Config{
			DefaultMethod:  "append",
			SmartThreshold: 0.8,
			FuzzyThreshold: 0.8,
			NumericFill:    "mean",
			TextFill:       "empty",
			DatetimeFill:   "ffill",
		},
		export.New(export.Config{}),
		transform.NewRegistry(),
		nil,
		zap.NewNop(),
	)
}

func TestWorkflow(t *testing.T) {
	svc := testService()
	const sid = "session-1"

	summary, err := svc.AddFile(sid, "north.csv", []byte("id,amount\n1,10\n2,20\n"), reader.Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Rows)
	assert.Equal(t, []string{"id", "amount"}, summary.Columns)

	_, err = svc.AddFile(sid, "south.csv", []byte("id,amount\n3,30\n"), reader.Options{})
	require.NoError(t, err)

	files, err := svc.ListFiles(sid)
	require.NoError(t, err)
	require.Len(t, files, 2)

	resp, err := svc.Merge(sid, merge.Spec{})
	require.NoError(t, err)
	assert.Equal(t, "append", resp.Method)
	assert.Equal(t, 3, resp.Preview.NumRows)
	assert.Equal(t, []string{"id", "amount"}, resp.Preview.Columns)

	report, err := svc.Columns(sid)
	require.NoError(t, err)
	require.Len(t, report, 2)
	assert.True(t, report[0].InAll)

	steps, err := svc.AddStep(sid, transform.Step{
		Kind:       transform.KindCalculated,
		Column:     "double",
		Expression: "amount * 2",
	})
	require.NoError(t, err)
	require.Len(t, steps.Steps, 1)
	assert.Contains(t, steps.Preview.Columns, "double")

	steps, err = svc.AddStep(sid, transform.Step{
		Kind:     transform.KindFilter,
		Column:   "amount",
		Operator: transform.OpGreaterThan,
		Operand:  "15",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, steps.Preview.NumRows)

	steps, err = svc.RemoveStep(sid, 1)
	require.NoError(t, err)
	require.Len(t, steps.Steps, 1)
	assert.Equal(t, 3, steps.Preview.NumRows)

	steps, err = svc.ResetSteps(sid)
	require.NoError(t, err)
	assert.Empty(t, steps.Steps)
	assert.Equal(t, []string{"id", "amount"}, steps.Preview.Columns)

	data, name, err := svc.Export(context.Background(), sid, export.FormatCSV, "")
	require.NoError(t, err)
	assert.Equal(t, "merged.csv", name)
	assert.Contains(t, string(data), "id,amount")
}

func TestFailedStepLeavesStateUntouched(t *testing.T) {
	svc := testService()
	const sid = "session-1"

	_, err := svc.AddFile(sid, "a.csv", []byte("x\n1\n"), reader.Options{})
	require.NoError(t, err)
	_, err = svc.Merge(sid, merge.Spec{})
	require.NoError(t, err)

	_, err = svc.AddStep(sid, transform.Step{
		Kind:       transform.KindCalculated,
		Column:     "y",
		Expression: "x +",
	})
	require.Error(t, err)

	steps, err := svc.ResetSteps(sid)
	require.NoError(t, err)
	assert.Empty(t, steps.Steps, "failed step must not be committed")
}

func TestUploadInvalidatesMerge(t *testing.T) {
	svc := testService()
	const sid = "session-1"

	_, err := svc.AddFile(sid, "a.csv", []byte("x\n1\n"), reader.Options{})
	require.NoError(t, err)
	_, err = svc.Merge(sid, merge.Spec{})
	require.NoError(t, err)

	_, err = svc.AddFile(sid, "b.csv", []byte("x\n2\n"), reader.Options{})
	require.NoError(t, err)

	_, _, err = svc.Export(context.Background(), sid, export.FormatCSV, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrState, "new upload discards the stale merge")
}

func TestExportBeforeMerge(t *testing.T) {
	svc := testService()

	_, _, err := svc.Export(context.Background(), "fresh", export.FormatCSV, "out")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrState)
}

func TestRemoveFileAndReset(t *testing.T) {
	svc := testService()
	const sid = "session-1"

	_, err := svc.AddFile(sid, "a.csv", []byte("x\n1\n"), reader.Options{})
	require.NoError(t, err)

	require.Error(t, svc.RemoveFile(sid, "ghost.csv"))
	require.NoError(t, svc.RemoveFile(sid, "a.csv"))

	files, err := svc.ListFiles(sid)
	require.NoError(t, err)
	assert.Empty(t, files)

	svc.ResetSession(sid)
	files, err = svc.ListFiles(sid)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestResetSessionClearsMergeResult(t *testing.T) {
	svc := testService()
	const sid = "session-reset"

	_, err := svc.AddFile(sid, "a.csv", []byte("x\n1\n"), reader.Options{})
	require.NoError(t, err)
	_, err = svc.Merge(sid, merge.Spec{Method: merge.MethodAppend})
	require.NoError(t, err)

	svc.ResetSession(sid)

	files, err := svc.ListFiles(sid)
	require.NoError(t, err)
	assert.Empty(t, files)

	_, _, err = svc.Export(context.Background(), sid, export.FormatCSV, "")
	require.ErrorIs(t, err, ErrState, "reset must drop the merge result")

	// The session keeps working after a reset.
	_, err = svc.AddFile(sid, "b.csv", []byte("y\n2\n"), reader.Options{})
	require.NoError(t, err)
}

func TestExportFilename(t *testing.T) {
	assert.Equal(t, "merged.csv", exportFilename("", export.FormatCSV))
	assert.Equal(t, "out.xlsx", exportFilename("out", export.FormatXLSX))
	assert.Equal(t, "out.json", exportFilename("out.json", export.FormatJSON))
}
