// Package testutil provides a stub database/sql driver that understands the
// handful of statement shapes the postgres record store issues, so store
// behavior can be tested without a running server.
package testutil

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
)

var stubSeq atomic.Int64

// StubConn records executed statements and keeps table contents in memory.
type StubConn struct {
	Execs    []string
	Tables   map[string][]map[string]any
	FailPing bool
	FailExec bool
	RowsErr  error
}

// NewStubDB registers a sql.DB backed by an in-memory stub connection.
func NewStubDB() (*sql.DB, *StubConn) {
	conn := &StubConn{Tables: make(map[string][]map[string]any)}
	name := fmt.Sprintf("stubpg%d", stubSeq.Add(1))
	sql.Register(name, &stubDriver{conn: conn})
	db, err := sql.Open(name, "stub")
	if err != nil {
		panic(err)
	}
	return db, conn
}

type stubDriver struct {
	conn *StubConn
}

func (d *stubDriver) Open(string) (driver.Conn, error) {
	return d.conn, nil
}

// Prepare implements driver.Conn.
func (c *StubConn) Prepare(string) (driver.Stmt, error) { return nil, fmt.Errorf("not implemented") }

// Close implements driver.Conn.
func (c *StubConn) Close() error { return nil }

// Begin implements driver.Conn.
func (c *StubConn) Begin() (driver.Tx, error) { return nil, fmt.Errorf("not implemented") }

// Ping implements driver.Pinger.
func (c *StubConn) Ping(_ context.Context) error {
	if c.FailPing {
		return fmt.Errorf("ping fail")
	}
	return nil
}

// ExecContext implements driver.ExecerContext.
func (c *StubConn) ExecContext(_ context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	c.Execs = append(c.Execs, query)
	if c.FailExec {
		return nil, fmt.Errorf("exec fail")
	}
	upper := strings.ToUpper(strings.TrimSpace(query))
	switch {
	case strings.HasPrefix(upper, "CREATE TABLE"):
		return driver.RowsAffected(0), nil
	case strings.HasPrefix(upper, "INSERT INTO"):
		return c.execInsert(query, args)
	case strings.HasPrefix(upper, "DELETE FROM"):
		return c.execDelete(query, args)
	}
	return driver.RowsAffected(0), nil
}

func (c *StubConn) execInsert(query string, args []driver.NamedValue) (driver.Result, error) {
	table, cols, err := parseInsert(query)
	if err != nil {
		return nil, err
	}
	if len(cols) != len(args) {
		return nil, fmt.Errorf("column/arg mismatch for %s", table)
	}
	row := make(map[string]any, len(cols))
	for i, col := range cols {
		row[col] = args[i].Value
	}
	upper := strings.ToUpper(query)
	primary := cols[0]
	existingIdx := -1
	for i, existing := range c.Tables[table] {
		if existing[primary] == row[primary] {
			existingIdx = i
			break
		}
	}
	if existingIdx >= 0 {
		if strings.Contains(upper, "DO NOTHING") {
			return driver.RowsAffected(0), nil
		}
		if strings.Contains(upper, "DO UPDATE") {
			c.Tables[table][existingIdx] = row
			return driver.RowsAffected(1), nil
		}
		return nil, fmt.Errorf("duplicate key for %s", table)
	}
	c.Tables[table] = append(c.Tables[table], row)
	return driver.RowsAffected(1), nil
}

func (c *StubConn) execDelete(query string, args []driver.NamedValue) (driver.Result, error) {
	table, col, err := parseDelete(query)
	if err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("missing args for delete %s", table)
	}
	target := args[0].Value
	removed := 0
	var filtered []map[string]any
	for _, row := range c.Tables[table] {
		if row[col] == target {
			removed++
			continue
		}
		filtered = append(filtered, row)
	}
	c.Tables[table] = filtered
	return driver.RowsAffected(int64(removed)), nil
}

// QueryContext implements driver.QueryerContext.
func (c *StubConn) QueryContext(_ context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	if c.Tables == nil {
		c.Tables = make(map[string][]map[string]any)
	}
	table, cols, whereCol, err := parseSelect(query)
	if err != nil {
		return nil, err
	}
	tableRows := c.Tables[table]
	values := make([][]driver.Value, 0, len(tableRows))
	for _, row := range tableRows {
		if whereCol != "" {
			if len(args) == 0 {
				return nil, fmt.Errorf("missing args for select %s", table)
			}
			if row[whereCol] != args[0].Value {
				continue
			}
		}
		vals := make([]driver.Value, len(cols))
		for i, col := range cols {
			if col == "1" {
				vals[i] = int64(1)
				continue
			}
			vals[i] = row[col]
		}
		values = append(values, vals)
	}
	return &stubRows{
		cols: cols,
		rows: values,
		err:  c.RowsErr,
	}, nil
}

type stubRows struct {
	cols []string
	rows [][]driver.Value
	idx  int
	err  error
}

func (r *stubRows) Columns() []string { return r.cols }
func (r *stubRows) Close() error      { return nil }

func (r *stubRows) Next(dest []driver.Value) error {
	if r.idx >= len(r.rows) {
		if r.err != nil {
			return r.err
		}
		return io.EOF
	}
	copy(dest, r.rows[r.idx])
	r.idx++
	return nil
}

func parseInsert(query string) (string, []string, error) {
	up := strings.ToUpper(query)
	intoIdx := strings.Index(up, "INTO ")
	if intoIdx == -1 {
		return "", nil, fmt.Errorf("cannot parse insert: %s", query)
	}
	rest := strings.TrimSpace(query[intoIdx+len("INTO "):])
	open := strings.Index(rest, "(")
	closeIdx := strings.Index(rest, ")")
	if open == -1 || closeIdx == -1 || closeIdx <= open {
		return "", nil, fmt.Errorf("cannot parse insert: %s", query)
	}
	table := strings.ToLower(strings.TrimSpace(rest[:open]))
	cols := splitColumns(rest[open+1 : closeIdx])
	return table, cols, nil
}

func parseDelete(query string) (string, string, error) {
	lower := strings.ToLower(query)
	prefix := "delete from "
	whereToken := " where "
	if !strings.HasPrefix(lower, prefix) {
		return "", "", fmt.Errorf("cannot parse delete: %s", query)
	}
	rest := strings.TrimSpace(query[len(prefix):])
	whereIdx := strings.Index(strings.ToLower(rest), whereToken)
	if whereIdx == -1 {
		return "", "", fmt.Errorf("cannot parse delete: %s", query)
	}
	table := strings.ToLower(strings.TrimSpace(rest[:whereIdx]))
	where := strings.TrimSpace(rest[whereIdx+len(whereToken):])
	parts := strings.SplitN(where, "=", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("cannot parse delete predicate: %s", query)
	}
	col := strings.ToLower(strings.TrimSpace(parts[0]))
	return table, col, nil
}

// parseSelect handles the two shapes the store issues: a bare projection and
// a projection filtered by a single equality predicate on a placeholder.
func parseSelect(query string) (table string, cols []string, whereCol string, err error) {
	lower := strings.ToLower(strings.Join(strings.Fields(query), " "))
	selectPrefix := "select "
	fromToken := " from "
	if !strings.HasPrefix(lower, selectPrefix) {
		return "", nil, "", fmt.Errorf("cannot parse select: %s", query)
	}
	fromIdx := strings.Index(lower, fromToken)
	if fromIdx == -1 {
		return "", nil, "", fmt.Errorf("cannot parse select: %s", query)
	}
	cols = splitColumns(lower[len(selectPrefix):fromIdx])
	rest := strings.TrimSpace(lower[fromIdx+len(fromToken):])
	whereToken := " where "
	if whereIdx := strings.Index(rest, whereToken); whereIdx != -1 {
		where := strings.TrimSpace(rest[whereIdx+len(whereToken):])
		parts := strings.SplitN(where, "=", 2)
		if len(parts) != 2 {
			return "", nil, "", fmt.Errorf("cannot parse select predicate: %s", query)
		}
		whereCol = strings.TrimSpace(parts[0])
		rest = strings.TrimSpace(rest[:whereIdx])
	}
	if rest == "" {
		return "", nil, "", fmt.Errorf("cannot parse select: %s", query)
	}
	table = strings.Fields(rest)[0]
	return table, cols, whereCol, nil
}

func splitColumns(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		out = append(out, strings.ToLower(strings.TrimSpace(part)))
	}
	return out
}
