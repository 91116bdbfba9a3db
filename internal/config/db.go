package config

import (
	"context"
	"database/sql"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"fleetops/internal/utils"
)

var (
	DB   *sql.DB
	dbMu sync.Mutex
)

const defaultDSN = "root:@tcp(127.0.0.1:3306)/fleetops?parseTime=true&loc=Local&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s"

// ConnectDB initializes the shared DB connection (idempotent).
func ConnectDB() *sql.DB {
	dbMu.Lock()
	defer dbMu.Unlock()
	return connectLocked()
}

func connectLocked() *sql.DB {
	if DB != nil {
		return DB
	}

	dsn := strings.TrimSpace(os.Getenv("DB_DSN"))
	if dsn == "" {
		dsn = defaultDSN
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		log.Fatalf("failed to open DB: %v", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(10 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// The database container often comes up a little after the API does.
	err = utils.Retry(ctx, 4, 500*time.Millisecond, func() error {
		pingCtx, pingCancel := context.WithTimeout(ctx, 3*time.Second)
		defer pingCancel()
		return db.PingContext(pingCtx)
	})
	if err != nil {
		log.Fatalf("failed to ping DB: %v", err)
	}

	DB = db
	log.Println("connected to MySQL")
	return DB
}

// EnsureDB verifies the shared handle is alive, reconnecting when needed.
func EnsureDB() error {
	dbMu.Lock()
	defer dbMu.Unlock()

	if DB == nil {
		connectLocked()
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	return DB.PingContext(ctx)
}

func CloseDB() {
	dbMu.Lock()
	defer dbMu.Unlock()

	if DB != nil {
		_ = DB.Close()
		DB = nil
	}
}
