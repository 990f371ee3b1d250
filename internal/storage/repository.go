package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gastos/internal/core"
	applog "gastos/internal/log"
	"gastos/internal/services"

	_ "modernc.org/sqlite"
)

// pragmas are applied to every pooled connection.
const pragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

var _ services.Repository = (*SQLiteRepository)(nil)

type SQLiteRepository struct {
	db     *sql.DB
	logger *applog.Logger
}

// DSN builds the connection string for a database file.
func DSN(dbPath string) string {
	return "file:" + dbPath + "?" + pragmas
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	dsn := DSN(dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := migrateSchema(dsn)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	repo := newRepository(db)
	repo.logger.Info("SQLite schema ready",
		"db_path", dbPath,
		"schema_version", version)
	return repo, nil
}

func newRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{
		db:     db,
		logger: applog.FromContext(context.Background()).WithComponent(applog.ComponentStorage),
	}
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// FindPersonByID returns (nil, nil) when no person has the id.
func (r *SQLiteRepository) FindPersonByID(ctx context.Context, id int64) (*core.Person, error) {
	var p core.Person
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, age FROM persons WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &p.Age)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query person: %w", err)
	}
	return &p, nil
}

// FindCategoryByID returns (nil, nil) when no category has the id.
func (r *SQLiteRepository) FindCategoryByID(ctx context.Context, id int64) (*core.Category, error) {
	var (
		c       core.Category
		purpose int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, description, purpose FROM categories WHERE id = ?`, id).
		Scan(&c.ID, &c.Description, &purpose)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query category: %w", err)
	}
	c.Purpose = core.Purpose(purpose)
	return &c, nil
}

func (r *SQLiteRepository) InsertTransaction(ctx context.Context, t core.Transaction) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (description, amount, kind, person_id, category_id) VALUES (?, ?, ?, ?, ?)`,
		t.Description, t.Amount, int64(t.Kind), t.PersonID, t.CategoryID)
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read transaction id: %w", err)
	}

	r.logger.DebugContext(ctx, "Transaction saved to SQLite",
		applog.FieldTransactionID, id,
		applog.FieldPersonID, t.PersonID,
		applog.FieldCategoryID, t.CategoryID)
	return id, nil
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.TransactionSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.id, t.description, t.amount, t.kind, p.id, p.name, c.id, c.description
		FROM transactions t
		JOIN persons p ON p.id = t.person_id
		JOIN categories c ON c.id = t.category_id
		ORDER BY t.id`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	out := []core.TransactionSummary{}
	for rows.Next() {
		var (
			s    core.TransactionSummary
			kind int64
		)
		if err := rows.Scan(&s.ID, &s.Description, &s.Amount, &kind,
			&s.Person.ID, &s.Person.Name, &s.Category.ID, &s.Category.Description); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		s.Kind = core.Kind(kind)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// FindTransactionByID returns (nil, nil) when no transaction has the id.
func (r *SQLiteRepository) FindTransactionByID(ctx context.Context, id int64) (*core.Transaction, error) {
	var (
		t    core.Transaction
		kind int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, description, amount, kind, person_id, category_id FROM transactions WHERE id = ?`, id).
		Scan(&t.ID, &t.Description, &t.Amount, &kind, &t.PersonID, &t.CategoryID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query transaction: %w", err)
	}
	t.Kind = core.Kind(kind)
	return &t, nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id int64) (bool, error) {
	return r.deleteByID(ctx, `DELETE FROM transactions WHERE id = ?`, id)
}

func (r *SQLiteRepository) ListTransactionsJoinedWithPerson(ctx context.Context) ([]core.GroupedAmount, error) {
	return r.groupedAmounts(ctx, `
		SELECT p.id, p.name, t.kind, t.amount
		FROM transactions t
		JOIN persons p ON p.id = t.person_id
		ORDER BY p.id, t.id`)
}

func (r *SQLiteRepository) ListTransactionsJoinedWithCategory(ctx context.Context) ([]core.GroupedAmount, error) {
	return r.groupedAmounts(ctx, `
		SELECT c.id, c.description, t.kind, t.amount
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		ORDER BY c.id, t.id`)
}

func (r *SQLiteRepository) groupedAmounts(ctx context.Context, query string) ([]core.GroupedAmount, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query grouped amounts: %w", err)
	}
	defer rows.Close()

	var out []core.GroupedAmount
	for rows.Next() {
		var (
			g    core.GroupedAmount
			kind int64
		)
		if err := rows.Scan(&g.Key, &g.Label, &kind, &g.Amount); err != nil {
			return nil, fmt.Errorf("scan grouped amount: %w", err)
		}
		g.Kind = core.Kind(kind)
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate grouped amounts: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) CreatePerson(ctx context.Context, p core.Person) (int64, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO persons (name, age) VALUES (?, ?)`, p.Name, p.Age)
	if err != nil {
		return 0, fmt.Errorf("insert person: %w", err)
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) ListPersons(ctx context.Context) ([]core.Person, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, age FROM persons ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query persons: %w", err)
	}
	defer rows.Close()

	out := []core.Person{}
	for rows.Next() {
		var p core.Person
		if err := rows.Scan(&p.ID, &p.Name, &p.Age); err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate persons: %w", err)
	}
	return out, nil
}

// DeletePerson removes the person's transactions and the person in one transaction.
func (r *SQLiteRepository) DeletePerson(ctx context.Context, id int64) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	removed, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE person_id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete person transactions: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM persons WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete person: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return false, nil
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}

	cascaded, _ := removed.RowsAffected()
	r.logger.InfoContext(ctx, "Person deleted from SQLite",
		applog.FieldPersonID, id,
		"transactions_removed", cascaded)
	return true, nil
}

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (description, purpose) VALUES (?, ?)`, c.Description, int64(c.Purpose))
	if err != nil {
		return 0, fmt.Errorf("insert category: %w", err)
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, description, purpose FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	out := []core.Category{}
	for rows.Next() {
		var (
			c       core.Category
			purpose int64
		)
		if err := rows.Scan(&c.ID, &c.Description, &purpose); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.Purpose = core.Purpose(purpose)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return out, nil
}

// DeleteCategory removes the category only while no transaction references
// it. The reference check runs inside the DELETE itself, so an insert racing
// the delete cannot slip between check and removal.
func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id int64) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		DELETE FROM categories
		WHERE id = ? AND NOT EXISTS (SELECT 1 FROM transactions WHERE category_id = ?)`, id, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, core.ErrCategoryInUse
		}
		return false, fmt.Errorf("delete category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		// Nothing removed: either the category is missing or it is still referenced.
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM categories WHERE id = ?)`, id).Scan(&exists); err != nil {
			return false, fmt.Errorf("check category: %w", err)
		}
		if exists {
			return false, core.ErrCategoryInUse
		}
		return false, nil
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return true, nil
}

func isForeignKeyViolation(err error) bool {
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// RecordActivity inserts the entry unless its event id was already recorded.
func (r *SQLiteRepository) RecordActivity(ctx context.Context, e core.ActivityEntry) (bool, error) {
	recordedAt := e.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO activity_log
			(event_id, event_type, transaction_id, description, amount, kind, person_id, category_id, occurred_at, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.EventID, e.EventType, e.TransactionID, e.Description, e.Amount, int64(e.Kind),
		e.PersonID, e.CategoryID, formatTime(e.OccurredAt), formatTime(recordedAt))
	if err != nil {
		return false, fmt.Errorf("insert activity: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n == 1, nil
}

// ListActivity returns the newest entries first.
func (r *SQLiteRepository) ListActivity(ctx context.Context, limit int) ([]core.ActivityEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, event_id, event_type, transaction_id, description, amount, kind, person_id, category_id, occurred_at, recorded_at
		FROM activity_log
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query activity: %w", err)
	}
	defer rows.Close()

	out := []core.ActivityEntry{}
	for rows.Next() {
		var (
			e                      core.ActivityEntry
			kind                   int64
			occurredAt, recordedAt string
		)
		if err := rows.Scan(&e.ID, &e.EventID, &e.EventType, &e.TransactionID, &e.Description, &e.Amount,
			&kind, &e.PersonID, &e.CategoryID, &occurredAt, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		e.Kind = core.Kind(kind)
		if e.OccurredAt, err = parseTime(occurredAt); err != nil {
			return nil, fmt.Errorf("parse occurred_at: %w", err)
		}
		if e.RecordedAt, err = parseTime(recordedAt); err != nil {
			return nil, fmt.Errorf("parse recorded_at: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) deleteByID(ctx context.Context, query string, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
