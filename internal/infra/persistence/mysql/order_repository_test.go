package mysql

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domorder "example.com/storefront/internal/domain/order"
)

// fakeConn reproduces the wire behaviour that matters for SetInvoice: the
// MySQL driver reports how many rows an UPDATE *changed*, so a retry that
// writes identical values reports zero even though the row exists.
type fakeConn struct {
	changedRows int64
	rowExists   bool
	execCount   int
	queryCount  int
}

func (c *fakeConn) Prepare(query string) (driver.Stmt, error) {
	return nil, errors.New("prepare not supported")
}

func (c *fakeConn) Close() error { return nil }

func (c *fakeConn) Begin() (driver.Tx, error) {
	return nil, errors.New("transactions not supported")
}

func (c *fakeConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	c.execCount++
	return driver.RowsAffected(c.changedRows), nil
}

func (c *fakeConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	c.queryCount++
	return &fakeRows{values: []driver.Value{c.rowExists}}, nil
}

type fakeRows struct {
	values []driver.Value
	done   bool
}

func (r *fakeRows) Columns() []string { return []string{"exists"} }
func (r *fakeRows) Close() error      { return nil }

func (r *fakeRows) Next(dest []driver.Value) error {
	if r.done {
		return io.EOF
	}
	copy(dest, r.values)
	r.done = true
	return nil
}

type fakeConnector struct {
	conn *fakeConn
}

func (c *fakeConnector) Connect(ctx context.Context) (driver.Conn, error) { return c.conn, nil }
func (c *fakeConnector) Driver() driver.Driver                           { return nil }

func openFakeDB(conn *fakeConn) *sql.DB {
	db := sql.OpenDB(&fakeConnector{conn: conn})
	db.SetMaxOpenConns(1)
	return db
}

func invoiceFixture() domorder.Invoice {
	return domorder.Invoice{
		URL:         "https://storage.example/invoices/order-7.pdf",
		ObjectID:    "invoices/order-7.pdf",
		GeneratedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestSetInvoiceChangedRow(t *testing.T) {
	conn := &fakeConn{changedRows: 1}
	db := openFakeDB(conn)
	defer db.Close()

	err := NewOrderRepository(db).SetInvoice(context.Background(), 7, invoiceFixture())
	require.NoError(t, err)
	require.Equal(t, 1, conn.execCount)
	require.Equal(t, 0, conn.queryCount, "no existence check when the update changed a row")
}

func TestSetInvoiceIdenticalValueRetry(t *testing.T) {
	// The order exists but the update writes the values it already holds,
	// so the driver reports zero changed rows. That must not read as a
	// missing order.
	conn := &fakeConn{changedRows: 0, rowExists: true}
	db := openFakeDB(conn)
	defer db.Close()

	err := NewOrderRepository(db).SetInvoice(context.Background(), 7, invoiceFixture())
	require.NoError(t, err)
	require.Equal(t, 1, conn.queryCount)
}

func TestSetInvoiceMissingOrder(t *testing.T) {
	conn := &fakeConn{changedRows: 0, rowExists: false}
	db := openFakeDB(conn)
	defer db.Close()

	err := NewOrderRepository(db).SetInvoice(context.Background(), 404, invoiceFixture())
	require.ErrorIs(t, err, domorder.ErrOrderNotFound)
}
