package sql

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	mu     sync.Mutex
	debugs []any
	errors []string
}

func (l *recordingLogger) Debug(args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.debugs = append(l.debugs, args...)
}

func (l *recordingLogger) Debugf(string, ...any) {}
func (l *recordingLogger) Log(...any)            {}
func (l *recordingLogger) Logf(string, ...any)   {}

func (l *recordingLogger) Error(args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, a := range args {
		if s, ok := a.(string); ok {
			l.errors = append(l.errors, s)
		}
	}
}

func (l *recordingLogger) Errorf(pattern string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.errors = append(l.errors, pattern)
}

func (l *recordingLogger) queryLogs() []*Log {
	l.mu.Lock()
	defer l.mu.Unlock()

	var logs []*Log

	for _, d := range l.debugs {
		if entry, ok := d.(*Log); ok {
			logs = append(logs, entry)
		}
	}

	return logs
}

type histogramRecord struct {
	name   string
	value  float64
	labels []string
}

type recordingMetrics struct {
	mu      sync.Mutex
	records []histogramRecord
}

func (m *recordingMetrics) NewHistogram(string, string, ...float64) {}

func (m *recordingMetrics) RecordHistogram(_ context.Context, name string, value float64, labels ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = append(m.records, histogramRecord{name: name, value: value, labels: labels})
}

func newTestDB(t *testing.T) (*DB, sqlmock.Sqlmock, *recordingLogger, *recordingMetrics) {
	t.Helper()

	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)

	t.Cleanup(func() { mockDB.Close() })

	logger := &recordingLogger{}
	metrics := &recordingMetrics{}
	db := NewDB(mockDB, &DBConfig{Dialect: "sqlite", Database: "orders.db"}, logger, metrics)

	return db, mock, logger, metrics
}

type employee struct {
	ID       int
	Name     string
	ImageURL string `db:"avatar"`
}

func TestSelectIntoStructSlice(t *testing.T) {
	db, mock, _, _ := newTestDB(t)

	mock.ExpectQuery("SELECT id, name, avatar FROM employees").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "avatar"}).
			AddRow(1, "ana", "a.png").
			AddRow(2, "bo", "b.png"))

	var out []employee

	require.NoError(t, db.Select(context.Background(), &out, "SELECT id, name, avatar FROM employees"))
	require.Len(t, out, 2)
	assert.Equal(t, employee{ID: 1, Name: "ana", ImageURL: "a.png"}, out[0])
	assert.Equal(t, employee{ID: 2, Name: "bo", ImageURL: "b.png"}, out[1])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSelectIntoScalarSlice(t *testing.T) {
	db, mock, _, _ := newTestDB(t)

	mock.ExpectQuery("SELECT id FROM employees").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7).AddRow(9))

	var ids []int

	require.NoError(t, db.Select(context.Background(), &ids, "SELECT id FROM employees"))
	assert.Equal(t, []int{7, 9}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSelectIntoStruct(t *testing.T) {
	db, mock, _, _ := newTestDB(t)

	mock.ExpectQuery("SELECT id, name FROM employees WHERE id = ?").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "ana"))

	var emp employee

	require.NoError(t, db.Select(context.Background(), &emp, "SELECT id, name FROM employees WHERE id = ?", 1))
	assert.Equal(t, 1, emp.ID)
	assert.Equal(t, "ana", emp.Name)
}

func TestSelectIgnoresUnknownColumns(t *testing.T) {
	db, mock, _, _ := newTestDB(t)

	mock.ExpectQuery("SELECT id, name, created_at FROM employees").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at"}).AddRow(3, "cy", "2024-01-01"))

	var out []employee

	require.NoError(t, db.Select(context.Background(), &out, "SELECT id, name, created_at FROM employees"))
	require.Len(t, out, 1)
	assert.Equal(t, 3, out[0].ID)
}

func TestSelectRejectsNonPointer(t *testing.T) {
	db, _, logger, _ := newTestDB(t)

	err := db.Select(context.Background(), employee{}, "SELECT 1")
	assert.ErrorIs(t, err, errSelectDataNotPointer)
	assert.NotEmpty(t, logger.errors)

	var n int

	err = db.Select(context.Background(), &n, "SELECT 1")
	assert.ErrorIs(t, err, errSelectUnsupported)
}

func TestSelectHonorsCancelledContext(t *testing.T) {
	db, _, _, _ := newTestDB(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out []employee

	err := db.Select(ctx, &out, "SELECT id FROM employees")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOperationStatsAreRecorded(t *testing.T) {
	db, mock, logger, metrics := newTestDB(t)

	mock.ExpectExec("DELETE FROM employees WHERE id = ?").
		WithArgs(4).
		WillReturnResult(sqlmock.NewResult(0, 1))

	_, err := db.ExecContext(context.Background(), "DELETE FROM employees WHERE id = ?", 4)
	require.NoError(t, err)

	logs := logger.queryLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, "ExecContext", logs[0].Type)
	assert.Equal(t, "DELETE FROM employees WHERE id = ?", logs[0].Query)

	metrics.mu.Lock()
	defer metrics.mu.Unlock()

	require.Len(t, metrics.records, 1)
	assert.Equal(t, metricSQLStats, metrics.records[0].name)
	assert.Contains(t, metrics.records[0].labels, "DELETE")
	assert.Contains(t, metrics.records[0].labels, "orders.db")
}

func TestTxOperationsAreInstrumented(t *testing.T) {
	db, mock, logger, _ := newTestDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE employees SET name = ? WHERE id = ?").
		WithArgs("dee", 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	_, err = tx.ExecContext(context.Background(), "UPDATE employees SET name = ? WHERE id = ?", "dee", 2)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	types := make([]string, 0, 3)
	for _, entry := range logger.queryLogs() {
		types = append(types, entry.Type)
	}

	assert.Contains(t, types, "TxExecContext")
	assert.Contains(t, types, "TxCommit")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDialectAccessors(t *testing.T) {
	db, mock, _, _ := newTestDB(t)

	assert.Equal(t, "sqlite", db.Dialect())

	mock.ExpectBegin()

	tx, err := db.Begin()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", tx.Dialect())
}

func TestLogPrettyPrint(t *testing.T) {
	var buf bytes.Buffer

	entry := &Log{Type: "QueryContext", Query: "SELECT *\n\t FROM  employees", Duration: 42}
	entry.PrettyPrint(&buf)

	out := buf.String()
	assert.Contains(t, out, "QueryContext")
	assert.Contains(t, out, "SELECT * FROM employees")
	assert.Contains(t, out, "µs")
}

func TestGetOperationType(t *testing.T) {
	assert.Equal(t, "SELECT", getOperationType("SELECT * FROM a"))
	assert.Equal(t, "INSERT", getOperationType("  insert into a values (1)"))
	assert.Equal(t, "COMMIT", getOperationType("COMMIT"))
}

func TestToSnakeCase(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "ID", expected: "id"},
		{input: "Name", expected: "name"},
		{input: "CreatedAt", expected: "created_at"},
		{input: "HTTPTimeout", expected: "http_timeout"},
		{input: "UserID2", expected: "user_id2"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, ToSnakeCase(tc.input))
		})
	}
}

func TestStatsDurationIsMeasured(t *testing.T) {
	logger := &recordingLogger{}

	sendStats(logger, nil, &DBConfig{}, time.Now().Add(-2*time.Millisecond), "Query", "SELECT 1")

	logs := logger.queryLogs()
	require.Len(t, logs, 1)
	assert.GreaterOrEqual(t, logs[0].Duration, int64(2000))
}
