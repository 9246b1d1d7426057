package ingest

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStructureEmptyFile(t *testing.T) {
	v := ValidateStructure(nil, KindReservations)
	assert.False(t, v.Valid)
	require.Len(t, v.Errors, 1)
	assert.Equal(t, "file empty or no data", v.Errors[0])
	assert.Empty(t, v.Warnings)
}

func TestValidateStructureMissingHeaders(t *testing.T) {
	rows := []RawRow{{"Foo": "1", "Bar": "2"}}

	v := ValidateStructure(rows, KindReservations)
	assert.False(t, v.Valid)
	require.Len(t, v.Errors, 1)
	assert.Contains(t, v.Errors[0], "missing required headers")

	v = ValidateStructure(rows, KindCash)
	assert.False(t, v.Valid)
}

func TestValidateStructureHeaderHeuristic(t *testing.T) {
	// Any known spelling of the identity headers passes the check.
	for _, header := range []string{"License Plate", "Matrícula", "matricula", "Alocação"} {
		rows := []RawRow{{header: "AA-11-BB"}}
		v := ValidateStructure(rows, KindReservations)
		assert.True(t, v.Valid, "header %q", header)
	}
}

func TestValidateStructureLargeFileWarning(t *testing.T) {
	rows := make([]RawRow, 10001)
	for i := range rows {
		rows[i] = RawRow{"License Plate": fmt.Sprintf("AA-%05d", i)}
	}

	v := ValidateStructure(rows, KindReservations)
	assert.True(t, v.Valid)
	require.Len(t, v.Warnings, 1)
	assert.Equal(t, "file very large (10001 rows)", v.Warnings[0])
}

func TestValidateStructureCashPlateOnly(t *testing.T) {
	rows := []RawRow{{"Matrícula": "AA-11-BB", "Valor": "5"}}
	v := ValidateStructure(rows, KindCash)
	assert.True(t, v.Valid)
	assert.Empty(t, v.Errors)
}
