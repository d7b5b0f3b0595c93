// Package trace records oracle transactions for offline inspection.
package trace

import (
	"database/sql"
	"fmt"
	"os"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"

	"github.com/rs/xid"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/llqverify/oracle"
	"github.com/tebeka/atexit"
)

// SQLiteRecorder is a hook that writes every transaction of an oracle
// session into a SQLite database.
type SQLiteRecorder struct {
	*sql.DB
	statement *sql.Stmt

	dbName    string
	runID     string
	pending   []oracle.Transaction
	batchSize int
	written   int
}

// NewSQLiteRecorder creates a recorder. The database is stored in
// <dbName>.sqlite3. An empty dbName picks a unique name. Buffered
// transactions are flushed when the program exits through atexit.
func NewSQLiteRecorder(dbName string) *SQLiteRecorder {
	r := &SQLiteRecorder{
		dbName:    dbName,
		batchSize: 10000,
	}

	atexit.Register(func() { _ = r.Flush() })

	return r
}

// Init creates the database. Transactions are tagged with runID.
func (r *SQLiteRecorder) Init(runID string) error {
	r.runID = runID

	err := r.createDatabase()
	if err != nil {
		return err
	}

	err = r.createTable()
	if err != nil {
		return err
	}

	stmt, err := r.Prepare(`INSERT INTO txn VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}

	r.statement = stmt

	return nil
}

// FileName returns the path of the database file.
func (r *SQLiteRecorder) FileName() string {
	return r.dbName + ".sqlite3"
}

// Written returns the number of transactions stored in the database.
func (r *SQLiteRecorder) Written() int {
	return r.written
}

// Func buffers a transaction. It is called by the session hooks.
func (r *SQLiteRecorder) Func(ctx sim.HookCtx) {
	txn, ok := ctx.Item.(oracle.Transaction)
	if !ok {
		return
	}

	r.pending = append(r.pending, txn)
	if len(r.pending) >= r.batchSize {
		err := r.Flush()
		if err != nil {
			panic(err)
		}
	}
}

// Flush writes all the buffered transactions to the database.
func (r *SQLiteRecorder) Flush() error {
	if len(r.pending) == 0 || r.statement == nil {
		return nil
	}

	tx, err := r.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt := tx.Stmt(r.statement)
	for _, txn := range r.pending {
		_, err = stmt.Exec(
			r.runID,
			txn.Cycle,
			txn.Kind.String(),
			txn.WasPush,
			uint32(txn.Context),
			uint32(txn.Expected),
			uint32(txn.Actual),
			txn.Match,
		)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert transaction at cycle %d: %w",
				txn.Cycle, err)
		}
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("failed to commit transactions: %w", err)
	}

	r.written += len(r.pending)
	r.pending = nil

	return nil
}

// Close flushes the buffered transactions and closes the database.
func (r *SQLiteRecorder) Close() error {
	err := r.Flush()
	if err != nil {
		return err
	}

	r.statement = nil

	return r.DB.Close()
}

func (r *SQLiteRecorder) createDatabase() error {
	if r.dbName == "" {
		r.dbName = "llq_trace_" + xid.New().String()
	}

	filename := r.FileName()
	if _, err := os.Stat(filename); err == nil {
		return fmt.Errorf("file %s already exists", filename)
	}

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", filename, err)
	}

	r.DB = db

	return nil
}

func (r *SQLiteRecorder) createTable() error {
	stmts := []string{`
		create table txn
		(
			run_id   varchar(20) not null,
			cycle    integer     not null,
			kind     varchar(20) not null,
			was_push boolean     not null,
			ctxt     integer     not null,
			expected integer     not null,
			actual   integer     not null,
			matched  boolean     not null
		);`,
		`create index txn_cycle_index on txn (cycle);`,
		`create index txn_ctxt_index on txn (ctxt);`,
		`create index txn_kind_index on txn (kind);`,
	}

	for _, s := range stmts {
		_, err := r.Exec(s)
		if err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}
