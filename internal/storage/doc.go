// Package storage provides SQLite-based persistence for orders and their
// reference data.
//
// The storage layer manages:
//   - Customers, including running balances
//   - Products and their live prices
//   - Warehouses
//   - Salespersons, including running sales totals
//   - Orders and their ordered lines
//
// # Database Schema
//
// Tables:
//   - customers, products, warehouses, salespersons: reference data keyed by id
//   - orders: one header per order, keyed by order number
//   - order_items: lines with a line_no preserving insertion order
//   - schema_version: applied migration versions
//
// Money columns are DECIMAL(15,2) and are written as fixed two-digit
// decimal strings. Order dates are unix milliseconds.
//
// # Basic Usage
//
//	db, err := storage.NewSQLiteStorage("~/.orderdesk/orderdesk.db", logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	if err := db.CreateOrder(ctx, order); err != nil {
//	    return err
//	}
//
//	loaded, err := db.GetOrder(ctx, order.ID())
//	if errors.Is(err, storage.ErrNotFound) {
//	    // no such order
//	}
//
// # Writes
//
// CreateOrder and UpdateOrder write the header and every line in a single
// transaction. A duplicate order number fails with ErrAlreadyExists.
//
// # Price Snapshots
//
// Each line stores the product price at the moment it was first written.
// Reloaded orders attach the live Product, so totals follow the current
// price, while OrderItem.PriceSnapshot exposes the stored one:
//
//	item := loaded.Items()[0]
//	live := item.Subtotal()           // current price x quantity
//	then, _ := item.PriceSnapshot()   // price when the order was saved
//
// # Reconstruction
//
// Loading orders fetches each referenced customer, salesperson, product and
// warehouse, memoized within a call. Orders whose customer or salesperson no
// longer exists are skipped with a warning; lines whose product or warehouse
// is gone are dropped the same way. Such an order reports DroppedLines and
// UpdateOrder refuses it, so a save never erases the stored lines.
//
// # Build Tags
//
// The storage package supports two build configurations:
//
// Pure Go Build (default, purego tag):
//
//   - Uses modernc.org/sqlite driver
//
//   - No C compiler needed
//
//     CGO_ENABLED=0 go build -tags "purego"
//
// CGO Build (sqlite_vec tag):
//
//   - Uses github.com/mattn/go-sqlite3 driver
//
//   - Requires C compiler
//
//     CGO_ENABLED=1 go build -tags "sqlite_vec"
package storage
