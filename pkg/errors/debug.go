package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// ErrorDump is the structured view of an error that gets logged next to a
// failed response. The driver fields are filled for whichever database
// produced the error.
type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`
	Status     int    `json:"status,omitempty"`
	Retryable  bool   `json:"retryable,omitempty"`

	Chain []string `json:"chain,omitempty"`

	PGCode       string `json:"pg_code,omitempty"`
	PGConstraint string `json:"pg_constraint,omitempty"`
	PGTable      string `json:"pg_table,omitempty"`
	PGColumn     string `json:"pg_column,omitempty"`
	PGDetail     string `json:"pg_detail,omitempty"`
	PGMessage    string `json:"pg_message,omitempty"`

	SQLiteCode     int `json:"sqlite_code,omitempty"`
	SQLiteExtended int `json:"sqlite_extended,omitempty"`
}

const maxChainDepth = 16

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{TopMessage: err.Error()}
	if te := As(err); te != nil {
		meta := MetadataFor(te.Code())
		d.Code = te.Code()
		d.Status = meta.HTTPStatus
		d.Retryable = meta.Retryable
	}

	for e, depth := err, 0; e != nil && depth < maxChainDepth; e, depth = errors.Unwrap(e), depth+1 {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	if !dumpPgx(err, &d) && !dumpPq(err, &d) {
		dumpSQLite(err, &d)
	}
	return d
}

func dumpPgx(err error, d *ErrorDump) bool {
	var pgxErr *pgconn.PgError
	if !errors.As(err, &pgxErr) {
		return false
	}
	d.PGCode = pgxErr.Code
	d.PGConstraint = pgxErr.ConstraintName
	d.PGTable = pgxErr.TableName
	d.PGColumn = pgxErr.ColumnName
	d.PGDetail = pgxErr.Detail
	d.PGMessage = pgxErr.Message
	return true
}

func dumpPq(err error, d *ErrorDump) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	d.PGCode = string(pqErr.Code)
	d.PGConstraint = pqErr.Constraint
	d.PGTable = pqErr.Table
	d.PGColumn = pqErr.Column
	d.PGDetail = pqErr.Detail
	d.PGMessage = pqErr.Message
	return true
}

func dumpSQLite(err error, d *ErrorDump) bool {
	var liteErr sqlite3.Error
	if !errors.As(err, &liteErr) {
		return false
	}
	d.SQLiteCode = int(liteErr.Code)
	d.SQLiteExtended = int(liteErr.ExtendedCode)
	return true
}

// Fields flattens the dump into log fields, leaving out anything unset.
func (d ErrorDump) Fields() map[string]any {
	fields := map[string]any{"error_message": d.TopMessage}
	if d.Code != "" {
		fields["error_code"] = string(d.Code)
	}
	if len(d.Chain) > 1 {
		fields["error_chain"] = d.Chain
	}
	for key, val := range map[string]string{
		"pg_code":       d.PGCode,
		"pg_constraint": d.PGConstraint,
		"pg_table":      d.PGTable,
		"pg_column":     d.PGColumn,
		"pg_detail":     d.PGDetail,
		"pg_message":    d.PGMessage,
	} {
		if val != "" {
			fields[key] = val
		}
	}
	if d.SQLiteCode != 0 {
		fields["sqlite_code"] = d.SQLiteCode
		fields["sqlite_extended"] = d.SQLiteExtended
	}
	return fields
}
