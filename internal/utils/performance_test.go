package utils

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestOperationTimer_LogsOperation(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)

	done := OperationTimer("analysis", log)
	d := done()

	assert.GreaterOrEqual(t, int64(d), int64(0))
	assert.Contains(t, buf.String(), `"operation":"analysis"`)
	assert.NotContains(t, buf.String(), "Slow operation")
}

func TestMeasureDBQuery_LogsRows(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)

	MeasureDBQuery("delete_old_reports", log)(3)

	assert.Contains(t, buf.String(), `"query":"delete_old_reports"`)
	assert.Contains(t, buf.String(), `"rows_affected":3`)
}
