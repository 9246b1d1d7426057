package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multipark/backoffice/internal/model"
)

func TestParseReservationsEnglishHeaders(t *testing.T) {
	rows := []RawRow{{
		"License Plate": "aa-11-bb",
		"Allocation":    "A37",
		"Customer Name": "Maria",
		"Check In":      "02/06/2025",
		"Booking Price": "12,50",
		"Status":        "reserved",
	}}

	recs, skipped := ParseReservations(rows)
	require.Len(t, recs, 1)
	assert.Empty(t, skipped)

	rec := recs[0]
	assert.Equal(t, "AA-11-BB", rec.LicensePlate)
	assert.Equal(t, "A37", rec.AllocationCode)
	assert.Equal(t, "MARIA", rec.CustomerName)
	assert.Equal(t, 12.5, rec.BookingPrice)
	assert.Equal(t, "RESERVED", rec.State)
	require.NotNil(t, rec.CheckinExpected)
	assert.Equal(t, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), *rec.CheckinExpected)
}

func TestParseReservationsPortugueseHeaders(t *testing.T) {
	rows := []RawRow{{
		"Matrícula":    "cc-22-dd",
		"Alocação":     "b2",
		"Nome Cliente": "José",
		"Preço Total":  "99",
	}}

	recs, skipped := ParseReservations(rows)
	require.Len(t, recs, 1)
	assert.Empty(t, skipped)
	assert.Equal(t, "CC-22-DD", recs[0].LicensePlate)
	assert.Equal(t, "B2", recs[0].AllocationCode)
	assert.Equal(t, "JOSÉ", recs[0].CustomerName)
	assert.Equal(t, 99.0, recs[0].TotalPrice)
}

func TestParseReservationsStateDefault(t *testing.T) {
	rows := []RawRow{{"License Plate": "AA-11-BB", "Allocation": "A1"}}
	recs, _ := ParseReservations(rows)
	require.Len(t, recs, 1)
	assert.Equal(t, model.StateReserved, recs[0].State)
}

func TestParseReservationsDropsRowsMissingIdentity(t *testing.T) {
	rows := []RawRow{
		{"License Plate": "AA-11-BB", "Allocation": "A1"},
		{"License Plate": "", "Allocation": "A2"},
		{"License Plate": "CC-22-DD"},
		{"License Plate": "EE-33-FF", "Allocation": "A3"},
	}

	recs, skipped := ParseReservations(rows)
	require.Len(t, recs, 2)
	assert.Equal(t, "AA-11-BB", recs[0].LicensePlate)
	assert.Equal(t, "EE-33-FF", recs[1].LicensePlate)

	require.Len(t, skipped, 2)
	assert.Equal(t, 1, skipped[0].Index)
	assert.Equal(t, 2, skipped[1].Index)
	for _, s := range skipped {
		assert.Equal(t, "missing license plate or allocation code", s.Reason)
	}
}

func TestParseCashPlateOnlyIdentity(t *testing.T) {
	rows := []RawRow{
		{"Matrícula": "aa-11-bb", "Valor": "30,00", "Data": "01/06/2025"},
		{"Valor": "10"},
	}

	recs, skipped := ParseCashTransactions(rows)
	require.Len(t, recs, 1)
	assert.Equal(t, "AA-11-BB", recs[0].LicensePlate)
	assert.Equal(t, 30.0, recs[0].Amount)
	require.NotNil(t, recs[0].TxAt)

	require.Len(t, skipped, 1)
	assert.Equal(t, 1, skipped[0].Index)
	assert.Equal(t, "missing license plate", skipped[0].Reason)
}

func TestParseCashDefaults(t *testing.T) {
	rows := []RawRow{{"Matrícula": "AA-11-BB", "Valor": "5"}}
	recs, _ := ParseCashTransactions(rows)
	require.Len(t, recs, 1)
	assert.Equal(t, model.PaymentCash, recs[0].PaymentMethod)
	assert.Nil(t, recs[0].TxAt) // engine substitutes ingestion time
}

func TestParseDeliveries(t *testing.T) {
	rows := []RawRow{{
		"License Plate": "AA-11-BB",
		"Allocation":    "A1",
		"Data Entrega":  "03/06/2025",
		"Condutor":      "rui",
	}}

	recs, skipped := ParseDeliveries(rows)
	require.Len(t, recs, 1)
	assert.Empty(t, skipped)
	assert.Equal(t, "RUI", recs[0].Driver)
	require.NotNil(t, recs[0].DeliveredAt)
}

func TestParseCollections(t *testing.T) {
	rows := []RawRow{{
		"Matricula":   "AA-11-BB",
		"Alocacao":    "A1",
		"Data Recolha": "01/06/2025",
		"Driver":      "ana",
	}}

	recs, skipped := ParseCollections(rows)
	require.Len(t, recs, 1)
	assert.Empty(t, skipped)
	assert.Equal(t, "ANA", recs[0].Driver)
	require.NotNil(t, recs[0].CollectedAt)
}

func TestParseIsDeterministic(t *testing.T) {
	rows := []RawRow{
		{"License Plate": "AA-11-BB", "Allocation": "A1", "Booking Price": "1,5"},
		{"License Plate": "CC-22-DD", "Allocation": "A2", "Booking Price": "2,5"},
	}
	first, firstSkipped := ParseReservations(rows)
	second, secondSkipped := ParseReservations(rows)
	assert.Equal(t, first, second)
	assert.Equal(t, firstSkipped, secondSkipped)
}
