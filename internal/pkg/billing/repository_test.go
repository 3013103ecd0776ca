package billing

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ManuelReschke/PayFox/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps the in-memory database alive and shared.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.PaymentAttempt{},
		&models.AffiliatePaymentAttempt{},
		&models.Subscription{},
		&models.AffiliateSubscription{},
	))
	return db
}

// newSharedTestDB opens a file database that several connections write to at
// once. Writers wait on the lock instead of failing with SQLITE_BUSY.
func newSharedTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "ledger.db") + "?_busy_timeout=10000&_journal_mode=WAL&_txlock=immediate"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(8)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.PaymentAttempt{}, &models.Subscription{}))
	return db
}

func TestCustomerLedgerRecordAttemptUpserts(t *testing.T) {
	db := newTestDB(t)
	ledger := NewRepository(db).Ledger(LedgerCustomer)
	ctx := context.Background()

	in := Attempt{TransactionID: "T1", PayerID: "u1", PlanName: "Gold", Amount: "100", Status: "pending"}
	require.NoError(t, ledger.RecordAttempt(ctx, in))

	in.Status = "success"
	in.ProcessorRef = "ref-1"
	require.NoError(t, ledger.RecordAttempt(ctx, in))

	var rows []models.PaymentAttempt
	require.NoError(t, db.Where("transaction_id = ?", "T1").Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "success", rows[0].Status)
	assert.Equal(t, "ref-1", rows[0].ProcessorRef)
	assert.Equal(t, "Gold", rows[0].PlanName)
}

func TestCustomerLedgerActivateSubscriptionUpserts(t *testing.T) {
	db := newTestDB(t)
	ledger := NewRepository(db).Ledger(LedgerCustomer)
	ctx := context.Background()

	first := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)
	require.NoError(t, ledger.ActivateSubscription(ctx, "u1", "Gold", first))
	require.NoError(t, ledger.ActivateSubscription(ctx, "u1", "Platinum", second))

	var subs []models.Subscription
	require.NoError(t, db.Where("user_id = ?", "u1").Find(&subs).Error)
	require.Len(t, subs, 1)
	assert.Equal(t, models.SubscriptionStatusActive, subs[0].Status)
	assert.Equal(t, "Platinum", subs[0].PlanName)
	require.NotNil(t, subs[0].CurrentPeriodStart)
	assert.True(t, second.Equal(subs[0].CurrentPeriodStart.UTC()))
}

func TestAffiliateLedgerWritesAffiliateTablesOnly(t *testing.T) {
	db := newTestDB(t)
	ledger := NewRepository(db).Ledger(LedgerAffiliate)
	ctx := context.Background()
	assert.Equal(t, LedgerAffiliate, ledger.Kind())

	require.NoError(t, ledger.RecordAttempt(ctx, Attempt{TransactionID: "A1", PayerID: "p1", PlanName: "Silver", Amount: "50", Status: "success"}))
	require.NoError(t, ledger.ActivateSubscription(ctx, "p1", "Silver", time.Now()))

	var attempt models.AffiliatePaymentAttempt
	require.NoError(t, db.Where("transaction_id = ?", "A1").First(&attempt).Error)
	assert.Equal(t, "Silver", attempt.TierName)

	var sub models.AffiliateSubscription
	require.NoError(t, db.Where("user_id = ?", "p1").First(&sub).Error)
	assert.Equal(t, "Silver", sub.TierName)

	var n int64
	require.NoError(t, db.Model(&models.PaymentAttempt{}).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, db.Model(&models.Subscription{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestLedgerRequiresKeys(t *testing.T) {
	db := newTestDB(t)
	ledger := NewRepository(db).Ledger(LedgerCustomer)

	assert.Error(t, ledger.RecordAttempt(context.Background(), Attempt{PayerID: "u1"}))
	assert.Error(t, ledger.ActivateSubscription(context.Background(), "", "Gold", time.Now()))
}

func TestResolveLedger(t *testing.T) {
	assert.Equal(t, LedgerAffiliate, ResolveLedger("affiliate"))
	assert.Equal(t, LedgerAffiliate, ResolveLedger(" AFFILIATE "))
	assert.Equal(t, LedgerCustomer, ResolveLedger(""))
	assert.Equal(t, LedgerCustomer, ResolveLedger("partner"))
}
