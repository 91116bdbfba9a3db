package services

import (
	"database/sql"
	"strings"
	"testing"

	"fleetops/internal/domain"
	"fleetops/internal/domain/models"
	"fleetops/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

var dieselCols = []string{
	"id", "fleet_number", "fill_date", "driver_name", "fuel_station",
	"km_reading", "previous_km_reading", "litres_filled",
	"cost_per_litre", "total_cost", "currency", "trip_id",
	"distance_travelled", "km_per_litre",
	"probe_reading", "probe_discrepancy", "probe_verified", "probe_notes",
	"efficiency_variance", "performance_status", "requires_debrief",
	"debrief_date", "debrief_notes", "debrief_signed",
	"notes", "created_at", "updated_at",
}

func dieselRow(id, tripID int64) *sqlmock.Rows {
	return sqlmock.NewRows(dieselCols).AddRow(
		id, "TRK-014", "2026-02-03", "Sipho", "Engen Beitbridge",
		101170.0, 100000.0, 450.0,
		22.5, 10125.0, "ZAR", tripID,
		1170.0, 2.6,
		nil, nil, 0, "",
		-13.33, "poor", 1,
		"", "", 0,
		"", "", "",
	)
}

func newDieselService(db *sql.DB) DieselService {
	return DieselService{
		DieselRepo:   repositories.DieselRepository{DB: db},
		TripsRepo:    repositories.TripsRepository{DB: db},
		CostsRepo:    repositories.CostsRepository{DB: db},
		ConfigRepo:   repositories.ConfigRepository{DB: db},
		ActivityRepo: repositories.ActivityRepository{DB: db},
		Actor:        "tester",
	}
}

func TestLinkCreatesSingleFuelCostEntry(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM diesel_records WHERE id=").WithArgs(int64(42)).
		WillReturnRows(dieselRow(42, 0))
	expectTripLoad(mock, 5, models.TripStatusActive, sqlmock.NewRows(costCols))
	mock.ExpectQuery("SELECT COUNT").WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectExec("UPDATE diesel_records SET trip_id").
		WithArgs(int64(5), int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO trip_costs").
		WithArgs(int64(5), models.CostCategoryFuel, 10125.0, "2026-02-03",
			"", sqlmock.AnyArg(), 0, "", "", "", "", int64(42)).
		WillReturnResult(sqlmock.NewResult(77, 1))
	mock.ExpectExec("INSERT INTO activity_logs").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := newDieselService(db).Link(42, 5); err != nil {
		t.Fatalf("link error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLinkAlreadyLinkedIsConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM diesel_records WHERE id=").WithArgs(int64(42)).
		WillReturnRows(dieselRow(42, 3))

	err = newDieselService(db).Link(42, 5)
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestLinkRefusesWhenCostEntryAlreadyExists(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM diesel_records WHERE id=").WithArgs(int64(42)).
		WillReturnRows(dieselRow(42, 0))
	expectTripLoad(mock, 5, models.TripStatusActive, sqlmock.NewRows(costCols))
	mock.ExpectQuery("SELECT COUNT").WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))

	err = newDieselService(db).Link(42, 5)
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestUnlinkRemovesExactlyTheLinkedEntry(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM diesel_records WHERE id=").WithArgs(int64(42)).
		WillReturnRows(dieselRow(42, 5))
	mock.ExpectExec("DELETE FROM trip_costs WHERE trip_id=. AND source_diesel_id=.").
		WithArgs(int64(5), int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE diesel_records SET trip_id").
		WithArgs(nil, int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO activity_logs").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := newDieselService(db).Unlink(42); err != nil {
		t.Fatalf("unlink error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUnlinkNotLinkedIsConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM diesel_records WHERE id=").WithArgs(int64(42)).
		WillReturnRows(dieselRow(42, 0))

	err = newDieselService(db).Unlink(42)
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestVerifyProbeRequiresNotesAboveThreshold(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	row := sqlmock.NewRows(dieselCols).AddRow(
		42, "TRK-014", "2026-02-03", "Sipho", "Engen Beitbridge",
		101170.0, 100000.0, 450.0,
		22.5, 10125.0, "ZAR", 0,
		1170.0, 2.6,
		380.0, 70.0, 0, "",
		-13.33, "poor", 1,
		"", "", 0,
		"", "", "",
	)
	mock.ExpectQuery("FROM diesel_records WHERE id=").WithArgs(int64(42)).
		WillReturnRows(row)

	err = newDieselService(db).VerifyProbe(42, "  ")
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error for missing notes, got %v", err)
	}
}

func TestImportCSVRejectsBadRowsKeepsGoodOnes(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	// No norm configured for the fleet.
	mock.ExpectQuery("FROM diesel_norms WHERE fleet_number=").WithArgs("TRK-014").
		WillReturnRows(sqlmock.NewRows([]string{"fleet_number"}))
	mock.ExpectExec("INSERT INTO diesel_records").
		WillReturnResult(sqlmock.NewResult(1, 1))

	csv := "fleetNumber,date,kmReading,litresFilled,totalCost,fuelStation,driverName\n" +
		"TRK-014,2026-02-03,101170,450,10125,Engen,Sipho\n" +
		",2026-02-04,1,100,2250,Shell,Maria\n"

	imported, rejected, err := newDieselService(db).ImportCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("import error: %v", err)
	}
	if len(imported) != 1 || len(rejected) != 1 {
		t.Fatalf("unexpected counts: imported=%d rejected=%d", len(imported), len(rejected))
	}
	if imported[0].FleetNumber != "TRK-014" {
		t.Fatalf("unexpected record: %+v", imported[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
