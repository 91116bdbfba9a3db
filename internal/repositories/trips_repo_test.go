package repositories

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestUpdateStatusCompareAndSet(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE trips SET status").
		WithArgs("completed", int64(1), "active").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE trips SET status").
		WithArgs("completed", int64(1), "active").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := TripsRepository{DB: db}

	ok, err := repo.UpdateStatus(1, "active", "completed")
	if err != nil {
		t.Fatalf("first update error: %v", err)
	}
	if !ok {
		t.Fatalf("first update should report a row changed")
	}

	// A concurrent writer already moved the status: the guard must report
	// no transition instead of silently overwriting.
	ok, err = repo.UpdateStatus(1, "active", "completed")
	if err != nil {
		t.Fatalf("second update error: %v", err)
	}
	if ok {
		t.Fatalf("stale transition should not report success")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteClearsDieselLinkButKeepsRecords(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("DELETE FROM trip_costs WHERE trip_id").WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM trip_additional_costs").WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM trip_delays").WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM trip_followups").WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("UPDATE diesel_records SET trip_id=NULL").WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM trips WHERE id").WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := (TripsRepository{DB: db}).Delete(9); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListTripsFilters(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM trips WHERE 1=1 AND status=. AND revenue_currency=.").
		WithArgs("active", "ZAR").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "fleet_number", "driver_name", "client_name", "client_type", "route",
			"start_date", "end_date", "actual_offload_at", "final_offload_at",
			"distance_km", "base_revenue", "revenue_currency", "payment_status", "status",
			"investigation_flag", "investigation_date", "investigation_notes",
			"created_at", "updated_at",
		}).AddRow(
			1, "TRK-014", "Sipho", "Acme", "external", "JHB-HRE",
			"2026-02-01", "2026-02-04", "", "",
			1170.0, 10000.0, "ZAR", "unpaid", "active",
			0, "", "",
			"", "",
		))

	trips, err := (TripsRepository{DB: db}).ListTrips("active", "zar")
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(trips) != 1 || trips[0].FleetNumber != "TRK-014" {
		t.Fatalf("unexpected result: %+v", trips)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
