package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createTransactionLogTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE aeps_transaction_logs (
		id TEXT PRIMARY KEY,
		agent_id TEXT NOT NULL,
		reference_id TEXT,
		operation TEXT NOT NULL,
		bank_code TEXT,
		masked_mobile TEXT,
		masked_aadhaar TEXT,
		aadhaar_fingerprint TEXT,
		amount TEXT,
		outcome TEXT NOT NULL,
		partner_message TEXT,
		partner_reference TEXT,
		created_at DATETIME NOT NULL
	);`)
}
