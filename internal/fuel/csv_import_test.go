package fuel

import (
	"strings"
	"testing"

	"fleetops/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const importHeader = "fleetNumber,date,kmReading,previousKmReading,litresFilled,totalCost,fuelStation,driverName,currency,probeReading\n"

func TestParseCSV(t *testing.T) {
	input := importHeader +
		"trk-014,2026-02-03,101170,100000,450,10125,Engen Beitbridge,Sipho,,380\n" +
		"TRK-020,2026-02-04,88000,87200,300,6750,Shell Musina,Maria,USD,\n"

	records, rowErrs, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "TRK-014", first.FleetNumber)
	assert.Equal(t, "2026-02-03", first.Date)
	assert.Equal(t, 450.0, first.LitresFilled)
	assert.Equal(t, models.CurrencyZAR, first.Currency) // default
	require.NotNil(t, first.ProbeReading)
	assert.Equal(t, 380.0, *first.ProbeReading)
	// Derived fields are the caller's job.
	assert.Zero(t, first.KmPerLitre)

	assert.Equal(t, models.CurrencyUSD, records[1].Currency)
	assert.Nil(t, records[1].ProbeReading)
}

func TestParseCSV_HeaderCaseInsensitive(t *testing.T) {
	input := "FLEETNUMBER,Date,KMREADING,LitresFilled,TotalCost,FuelStation,DriverName\n" +
		"TRK-001,2026-02-03,50000,200,4500,Sasol,Joe\n"
	records, rowErrs, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, records, 1)
}

func TestParseCSV_MissingRequiredColumn(t *testing.T) {
	input := "fleetNumber,date,kmReading,litresFilled,totalCost,fuelStation\nTRK-001,2026-02-03,1,1,1,X\n"
	_, _, err := ParseCSV(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "driverName")
}

func TestParseCSV_RowErrorsDoNotAbortBatch(t *testing.T) {
	input := importHeader +
		"TRK-014,2026-02-03,101170,100000,450,10125,Engen,Sipho,,\n" +
		",2026-02-04,1,1,100,2250,Shell,Maria,,\n" + // missing fleet
		"TRK-015,2026-02-05,5,1,abc,2250,Shell,Maria,,\n" + // bad number
		"TRK-016,2026-02-06,5,1,0,2250,Shell,Maria,,\n" + // zero litres
		"TRK-017,2026-02-07,5,1,100,2250,Shell,Maria,GBP,\n" // bad currency

	records, rowErrs, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Len(t, rowErrs, 4)

	assert.Equal(t, 3, rowErrs[0].Line)
	assert.Contains(t, rowErrs[1].Msg, "litresFilled")
	assert.Contains(t, rowErrs[2].Msg, "litresFilled must be positive")
	assert.Contains(t, rowErrs[3].Msg, "GBP")
}

func TestParseCSV_ThousandSeparators(t *testing.T) {
	input := importHeader +
		`TRK-014,2026-02-03,"101,170","100,000",450,"10,125",Engen,Sipho,,` + "\n"
	records, rowErrs, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, records, 1)
	assert.Equal(t, 101170.0, records[0].KmReading)
	assert.Equal(t, 10125.0, records[0].TotalCost)
}
