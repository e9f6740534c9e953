package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dekarrin/formulon/server/dao"
	"github.com/google/uuid"
)

// AuditDB is a dao.AuditRepository backed by a sqlite table.
type AuditDB struct {
	db *sql.DB
}

func (repo *AuditDB) init() error {
	stmt := `CREATE TABLE IF NOT EXISTS audit_log (
		id TEXT NOT NULL PRIMARY KEY,
		source TEXT NOT NULL,
		result REAL NOT NULL,
		error_index INTEGER NOT NULL,
		took_millis INTEGER NOT NULL,
		created INTEGER NOT NULL
	);`
	_, err := repo.db.Exec(stmt)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *AuditDB) Create(ctx context.Context, e dao.AuditEntry) (dao.AuditEntry, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.AuditEntry{}, fmt.Errorf("could not generate ID: %w", err)
	}

	stmt, err := repo.db.Prepare(`INSERT INTO audit_log (id, source, result, error_index, took_millis, created) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return dao.AuditEntry{}, wrapDBError(err)
	}
	now := time.Now()

	_, err = stmt.ExecContext(
		ctx,
		convertToDB_UUID(newUUID),
		e.Source,
		e.Result,
		e.ErrorIndex,
		e.TookMillis,
		convertToDB_Time(now),
	)
	if err != nil {
		return dao.AuditEntry{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *AuditDB) GetByID(ctx context.Context, id uuid.UUID) (dao.AuditEntry, error) {
	e := dao.AuditEntry{ID: id}
	var created int64

	row := repo.db.QueryRowContext(ctx, `SELECT source, result, error_index, took_millis, created FROM audit_log WHERE id = ?;`,
		convertToDB_UUID(id),
	)
	err := row.Scan(&e.Source, &e.Result, &e.ErrorIndex, &e.TookMillis, &created)
	if err != nil {
		return e, wrapDBError(err)
	}

	if err := convertFromDB_Time(created, &e.Created); err != nil {
		return e, fmt.Errorf("stored created time %d is invalid: %w", created, err)
	}

	return e, nil
}

func (repo *AuditDB) GetAll(ctx context.Context) ([]dao.AuditEntry, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT id, source, result, error_index, took_millis, created FROM audit_log ORDER BY created DESC;`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.AuditEntry

	for rows.Next() {
		var e dao.AuditEntry
		var id string
		var created int64

		if err := rows.Scan(&id, &e.Source, &e.Result, &e.ErrorIndex, &e.TookMillis, &created); err != nil {
			return nil, wrapDBError(err)
		}

		if err := convertFromDB_UUID(id, &e.ID); err != nil {
			return all, fmt.Errorf("stored ID %q is invalid: %w", id, err)
		}
		if err := convertFromDB_Time(created, &e.Created); err != nil {
			return all, fmt.Errorf("stored created time %d is invalid: %w", created, err)
		}

		all = append(all, e)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	return all, nil
}

func (repo *AuditDB) Close() error {
	return nil
}
