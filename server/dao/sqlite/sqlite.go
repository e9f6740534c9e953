// Package sqlite provides a pure-Go, cgo-free sqlite-backed implementation
// of the server's dao.Store, used to persist the /eval audit log.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dekarrin/formulon/server/dao"
	"github.com/google/uuid"
	"modernc.org/sqlite"
)

type store struct {
	dbFilename string
	db         *sql.DB
	audit      *AuditDB
}

// NewDatastore opens (creating if needed) a sqlite database file named
// "data.db" in storageDir and returns a dao.Store backed by it.
func NewDatastore(storageDir string) (dao.Store, error) {
	st := &store{dbFilename: "data.db"}

	fileName := filepath.Join(storageDir, st.dbFilename)

	var err error
	st.db, err = sql.Open("sqlite", fileName)
	if err != nil {
		return nil, wrapDBError(err)
	}

	st.audit = &AuditDB{db: st.db}
	if err := st.audit.init(); err != nil {
		return nil, err
	}

	return st, nil
}

func (s *store) Audit() dao.AuditRepository {
	return s.audit
}

func (s *store) Close() error {
	return s.db.Close()
}

func convertToDB_UUID(u uuid.UUID) string {
	return u.String()
}

func convertFromDB_UUID(s string, target *uuid.UUID) error {
	u, err := uuid.Parse(s)
	if err != nil {
		return fmt.Errorf("%s: %w", err.Error(), dao.ErrDecodingFailure)
	}
	*target = u
	return nil
}

func convertToDB_Time(t time.Time) int64 {
	return t.Unix()
}

func convertFromDB_Time(i int64, target *time.Time) error {
	*target = time.Unix(i, 0)
	return nil
}

func wrapDBError(err error) error {
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code() == 19 {
			return dao.ErrConstraintViolation
		}
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	} else if errors.Is(err, sql.ErrNoRows) {
		return dao.ErrNotFound
	}
	return err
}
