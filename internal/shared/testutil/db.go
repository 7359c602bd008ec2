// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"replyforge/database"
	"replyforge/internal/domain/accounts"
	"replyforge/internal/domain/plans"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var dbSeq atomic.Int64

// NewDB returns a migrated in-memory sqlite database private to the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	// a named shared-cache database lets the pool's single connection be recycled without losing data
	dsn := fmt.Sprintf("sqlite:file:testdb%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := database.Open(dsn)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// SeedAccount inserts an account on the given tier with the given usage.
func SeedAccount(t *testing.T, db *gorm.DB, id string, tier plans.Tier, used int) *accounts.Account {
	t.Helper()

	a := accounts.New(id, id+"@example.com")
	a.Plan = tier
	a.ResponsesLimit = tier.Limits().Responses
	a.ResponsesUsed = used
	require.NoError(t, db.Create(&a).Error)
	return &a
}

func Ptr[T any](v T) *T { return &v }
