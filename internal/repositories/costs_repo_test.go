package repositories

import (
	"testing"

	"fleetops/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestFlagResetsResolutionState(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE trip_costs").
		WithArgs("amount out of range", models.InvestigationPending, "2026-02-10 08:00:00", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := CostsRepository{DB: db}
	if err := repo.Flag(3, "amount out of range", "2026-02-10 08:00:00"); err != nil {
		t.Fatalf("flag error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInsertStoresNullForUnlinkedDiesel(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO trip_costs").
		WithArgs(int64(7), "tolls", 350.0, "2026-02-03", "", "", 0, "", "", "", "", nil).
		WillReturnResult(sqlmock.NewResult(11, 1))

	repo := CostsRepository{DB: db}
	entry := models.CostEntry{TripID: 7, Category: models.CostCategoryTolls, Amount: 350, Date: "2026-02-03"}
	if err := repo.Insert(&entry); err != nil {
		t.Fatalf("insert error: %v", err)
	}
	if entry.ID != 11 {
		t.Fatalf("insert id not captured, got %d", entry.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteByDieselReportsRowsRemoved(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("DELETE FROM trip_costs WHERE trip_id=. AND source_diesel_id=.").
		WithArgs(int64(7), int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := (CostsRepository{DB: db}).DeleteByDiesel(7, 42)
	if err != nil {
		t.Fatalf("delete error: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected exactly one linked entry removed, got %d", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
