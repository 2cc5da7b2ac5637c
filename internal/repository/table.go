package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/rental-booking/internal/database"
	"github.com/iliyamo/rental-booking/internal/model"
	"github.com/iliyamo/rental-booking/internal/storage"
)

// Mapping describes how an entity of type T is stored as a row of type R.
// R carries db tags for sqlx; its "id" field is the auto-increment key.
type Mapping[T any, R any] struct {
	// Table is the name of the entity table.
	Table string
	// Columns lists the writable columns, excluding id, in insert order.
	Columns []string
	// Select is the SELECT ... FROM ... clause used by reads, including
	// the joins needed to rebuild embedded references.  Column aliases
	// must match the db tags of R.
	Select string
	// IDColumn is the qualified id column used in WHERE and ORDER BY
	// clauses of Select.
	IDColumn string
	ToRow    func(T) (R, error)
	FromRow  func(R) (T, error)
}

// Table implements storage.Store over one SQL table.
type Table[T any, P model.Identifiable[T], R any] struct {
	db  *sqlx.DB
	m   Mapping[T, R]
	log logrus.FieldLogger
}

var _ storage.Store[model.Host] = (*Table[model.Host, *model.Host, hostRow])(nil)

// NewTable binds mapping m to db.
func NewTable[T any, P model.Identifiable[T], R any](db *sqlx.DB, m Mapping[T, R], log logrus.FieldLogger) *Table[T, P, R] {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Table[T, P, R]{db: db, m: m, log: log.WithField("table", m.Table)}
}

func (t *Table[T, P, R]) insertSQL() string {
	named := make([]string, len(t.m.Columns))
	for i, c := range t.m.Columns {
		named[i] = ":" + c
	}
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		t.m.Table, strings.Join(t.m.Columns, ", "), strings.Join(named, ", "))
	if t.db.DriverName() == database.DriverPostgres {
		q += " RETURNING id"
	}
	return q
}

func (t *Table[T, P, R]) updateSQL() string {
	sets := make([]string, len(t.m.Columns))
	for i, c := range t.m.Columns {
		sets[i] = c + " = :" + c
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE id = :id", t.m.Table, strings.Join(sets, ", "))
}

// withTx runs fn inside a transaction that is rolled back on any error
// and committed otherwise.
func (t *Table[T, P, R]) withTx(ctx context.Context, op string, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		return classify(op, err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				t.log.WithError(rbErr).WithField("op", op).Warn("rollback failed")
			}
			return
		}
		if cErr := tx.Commit(); cErr != nil {
			err = classify(op+" commit", cErr)
		}
	}()
	if err = fn(tx); err != nil {
		return classify(op, err)
	}
	return nil
}

// Create inserts entity and writes the generated id, and the stored form
// of its fields, back into it.
func (t *Table[T, P, R]) Create(ctx context.Context, entity *T) error {
	op := "insert " + t.m.Table
	row, err := t.m.ToRow(*entity)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	var id int64
	err = t.withTx(ctx, op, func(tx *sqlx.Tx) error {
		if t.db.DriverName() == database.DriverPostgres {
			rows, err := sqlx.NamedQueryContext(ctx, tx, t.insertSQL(), row)
			if err != nil {
				return err
			}
			defer rows.Close()
			if !rows.Next() {
				if err := rows.Err(); err != nil {
					return err
				}
				return sql.ErrNoRows
			}
			return rows.Scan(&id)
		}
		res, err := tx.NamedExecContext(ctx, t.insertSQL(), row)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return err
	}
	// The caller keeps what a Read would return, e.g. truncated times.
	stored, err := t.m.FromRow(row)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, storage.ErrIO, err)
	}
	*entity = stored
	P(entity).SetID(int(id))
	return nil
}

func (t *Table[T, P, R]) Read(ctx context.Context, id int) (T, bool, error) {
	var (
		zero T
		row  R
	)
	q := t.db.Rebind(t.m.Select + " WHERE " + t.m.IDColumn + " = ?")
	if err := t.db.GetContext(ctx, &row, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return zero, false, nil
		}
		return zero, false, classify("select "+t.m.Table, err)
	}
	v, err := t.m.FromRow(row)
	if err != nil {
		return zero, false, fmt.Errorf("decode %s %d: %w: %w", t.m.Table, id, storage.ErrIO, err)
	}
	return v, true, nil
}

// Update rewrites the row with the entity's id.  No matching row is not
// an error.
func (t *Table[T, P, R]) Update(ctx context.Context, entity T) error {
	op := "update " + t.m.Table
	row, err := t.m.ToRow(entity)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return t.withTx(ctx, op, func(tx *sqlx.Tx) error {
		res, err := tx.NamedExecContext(ctx, t.updateSQL(), row)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			t.log.WithField("id", P(&entity).GetID()).Debug("update matched no row")
		}
		return nil
	})
}

func (t *Table[T, P, R]) Delete(ctx context.Context, id int) error {
	op := "delete " + t.m.Table
	return t.withTx(ctx, op, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM "+t.m.Table+" WHERE id = ?"), id)
		return err
	})
}

func (t *Table[T, P, R]) GetAll(ctx context.Context) ([]T, error) {
	var rows []R
	if err := t.db.SelectContext(ctx, &rows, t.m.Select+" ORDER BY "+t.m.IDColumn); err != nil {
		return nil, classify("select "+t.m.Table, err)
	}
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		v, err := t.m.FromRow(r)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w: %w", t.m.Table, storage.ErrIO, err)
		}
		out = append(out, v)
	}
	return out, nil
}
