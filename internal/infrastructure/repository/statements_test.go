package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var errOffline = errors.New("no database in dry run")

// offlineConnPool satisfies gorm.ConnPool without ever dialing postgres
type offlineConnPool struct{}

func (offlineConnPool) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	return nil, errOffline
}

func (offlineConnPool) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, errOffline
}

func (offlineConnPool) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, errOffline
}

func (offlineConnPool) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

// statementLog records every statement gorm renders
type statementLog struct {
	mu    sync.Mutex
	stmts []string
}

func (l *statementLog) LogMode(logger.LogLevel) logger.Interface { return l }
func (l *statementLog) Info(context.Context, string, ...interface{}) {}
func (l *statementLog) Warn(context.Context, string, ...interface{}) {}
func (l *statementLog) Error(context.Context, string, ...interface{}) {}
func (l *statementLog) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	stmt, _ := fc()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stmts = append(l.stmts, stmt)
}

func (l *statementLog) last(t *testing.T) string {
	t.Helper()
	l.mu.Lock()
	defer l.mu.Unlock()
	require.NotEmpty(t, l.stmts)
	return l.stmts[len(l.stmts)-1]
}

func newDryRunDB(t *testing.T) (*gorm.DB, *statementLog) {
	t.Helper()
	stmts := &statementLog{}
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: offlineConnPool{}}), &gorm.Config{
		DryRun:                 true,
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
		Logger:                 stmts,
	})
	require.NoError(t, err)
	return db, stmts
}

func TestShiftCloseIsConditionalOnOpenStatus(t *testing.T) {
	db, stmts := newDryRunDB(t)
	repo := NewShiftRepository(db)

	closedBy := uuid.New()
	closingCash, reported := int64(250000), int64(48000)
	closedAt := time.Date(2024, 3, 5, 18, 0, 0, 0, time.UTC)
	shift := &entity.Shift{
		ID:              uuid.New(),
		ClosedBy:        &closedBy,
		ClosingCash:     &closingCash,
		ReportedRevenue: &reported,
		ClosedAt:        &closedAt,
	}

	closed, err := repo.Close(context.Background(), shift)
	require.NoError(t, err)
	assert.False(t, closed)

	stmt := stmts.last(t)
	assert.Contains(t, stmt, `UPDATE "shifts" SET`)
	assert.Contains(t, stmt, `"status"='closed'`)
	assert.Contains(t, stmt, `"closing_cash"=250000`)
	assert.Contains(t, stmt, `"reported_revenue"=48000`)
	assert.Contains(t, stmt, fmt.Sprintf(`"closed_by"='%s'`, closedBy))
	assert.Contains(t, stmt, fmt.Sprintf(`WHERE id = '%s' AND status = 'open'`, shift.ID))
	assert.NotContains(t, stmt, "total_system_revenue")
}

func TestShiftAddRevenueFoldsInPlace(t *testing.T) {
	db, stmts := newDryRunDB(t)
	repo := NewShiftRepository(db)

	shift, err := repo.AddRevenue(context.Background(), 75000)
	require.NoError(t, err)
	assert.Nil(t, shift)

	stmt := stmts.last(t)
	assert.Contains(t, stmt, `UPDATE "shifts" SET "total_system_revenue"=total_system_revenue + 75000`)
	assert.Contains(t, stmt, `WHERE status = 'open'`)
	assert.Contains(t, stmt, "RETURNING *")
}

func TestLockInvoiceDayTakesDayScopedAdvisoryLock(t *testing.T) {
	db, stmts := newDryRunDB(t)
	repo := NewSaleRepository(db)

	require.NoError(t, repo.LockInvoiceDay(context.Background(), time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)))

	assert.Equal(t, fmt.Sprintf("SELECT pg_advisory_xact_lock(%d, 240305)", invoiceLockClass), stmts.last(t))
}

func TestCountBetweenIsHalfOpen(t *testing.T) {
	db, stmts := newDryRunDB(t)
	repo := NewSaleRepository(db)
	from := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	_, err := repo.CountBetween(context.Background(), from, from.AddDate(0, 0, 1))
	require.NoError(t, err)

	assert.Contains(t, stmts.last(t), `WHERE sold_at >= '2024-03-05 00:00:00' AND sold_at < '2024-03-06 00:00:00'`)
}
