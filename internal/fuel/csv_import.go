package fuel

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fleetops/internal/domain/models"
)

// requiredColumns must all be present in the import header.
var requiredColumns = []string{
	"fleetNumber", "date", "kmReading", "litresFilled", "totalCost", "fuelStation", "driverName",
}

// RowError reports a single rejected line; the rest of the file still
// imports.
type RowError struct {
	Line int    `json:"line"`
	Msg  string `json:"msg"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// ParseCSV reads diesel fill records from r. Header names are matched
// case-insensitively; optional columns are previousKmReading,
// costPerLitre, notes, currency (default ZAR) and probeReading. Derived
// fields are not computed here; callers run Derive with the fleet norm.
func ParseCSV(r io.Reader) ([]models.DieselRecord, []RowError, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv header: %w", err)
	}

	idx := map[string]int{}
	for i, col := range header {
		idx[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := idx[strings.ToLower(col)]; !ok {
			return nil, nil, fmt.Errorf("missing required column %q", col)
		}
	}

	field := func(row []string, name string) string {
		i, ok := idx[strings.ToLower(name)]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var (
		records []models.DieselRecord
		rowErrs []RowError
	)

	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: line, Msg: err.Error()})
			continue
		}

		rec := models.DieselRecord{
			FleetNumber: strings.ToUpper(field(row, "fleetNumber")),
			Date:        field(row, "date"),
			FuelStation: field(row, "fuelStation"),
			DriverName:  field(row, "driverName"),
			Notes:       field(row, "notes"),
			Currency:    strings.ToUpper(field(row, "currency")),
		}
		if rec.FleetNumber == "" || rec.Date == "" {
			rowErrs = append(rowErrs, RowError{Line: line, Msg: "fleetNumber and date are required"})
			continue
		}
		if rec.Currency == "" {
			rec.Currency = models.CurrencyZAR
		}
		if !models.ValidCurrency(rec.Currency) {
			rowErrs = append(rowErrs, RowError{Line: line, Msg: "unsupported currency " + rec.Currency})
			continue
		}

		var parseErr error
		rec.KmReading = parseFloatField(field(row, "kmReading"), "kmReading", &parseErr)
		rec.LitresFilled = parseFloatField(field(row, "litresFilled"), "litresFilled", &parseErr)
		rec.TotalCost = parseFloatField(field(row, "totalCost"), "totalCost", &parseErr)
		if v := field(row, "previousKmReading"); v != "" {
			rec.PreviousKmReading = parseFloatField(v, "previousKmReading", &parseErr)
		}
		if v := field(row, "costPerLitre"); v != "" {
			rec.CostPerLitre = parseFloatField(v, "costPerLitre", &parseErr)
		}
		if v := field(row, "probeReading"); v != "" {
			p := parseFloatField(v, "probeReading", &parseErr)
			rec.ProbeReading = &p
		}
		if parseErr != nil {
			rowErrs = append(rowErrs, RowError{Line: line, Msg: parseErr.Error()})
			continue
		}
		if rec.LitresFilled <= 0 {
			rowErrs = append(rowErrs, RowError{Line: line, Msg: "litresFilled must be positive"})
			continue
		}

		records = append(records, rec)
	}

	return records, rowErrs, nil
}

func parseFloatField(s, name string, firstErr *error) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil && *firstErr == nil {
		*firstErr = fmt.Errorf("%s is not a number", name)
	}
	return v
}
