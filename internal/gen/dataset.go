package gen

import (
	"crypto/sha1"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// The five dataset files and their column sets form the load-time contract
// between generator and loader; renaming or reordering a column is a
// breaking change.
const (
	UsersFile      = "users.csv"
	ProductsFile   = "products.csv"
	OrdersFile     = "orders.csv"
	OrderItemsFile = "order_items.csv"
	PaymentsFile   = "payments.csv"
)

var DataFiles = []string{UsersFile, ProductsFile, OrdersFile, OrderItemsFile, PaymentsFile}

var Columns = map[string][]string{
	UsersFile:      {"user_id", "first_name", "last_name", "email", "country", "signup_date", "segment", "is_active", "loyalty_score"},
	ProductsFile:   {"product_id", "name", "category", "price", "currency", "inventory_count", "is_active"},
	OrdersFile:     {"order_id", "user_id", "order_date", "status", "shipping_method", "discount_amount", "total_amount", "currency"},
	OrderItemsFile: {"order_item_id", "order_id", "product_id", "quantity", "unit_price", "line_total"},
	PaymentsFile:   {"payment_id", "order_id", "payment_date", "amount", "status", "payment_method", "transaction_reference"},
}

func (c *Collections) records(file string) [][]string {
	switch file {
	case UsersFile:
		rows := make([][]string, len(c.Users))
		for i, u := range c.Users {
			rows[i] = u.record()
		}
		return rows
	case ProductsFile:
		rows := make([][]string, len(c.Products))
		for i, p := range c.Products {
			rows[i] = p.record()
		}
		return rows
	case OrdersFile:
		rows := make([][]string, len(c.Orders))
		for i, o := range c.Orders {
			rows[i] = o.record()
		}
		return rows
	case OrderItemsFile:
		rows := make([][]string, len(c.OrderItems))
		for i, it := range c.OrderItems {
			rows[i] = it.record()
		}
		return rows
	case PaymentsFile:
		rows := make([][]string, len(c.Payments))
		for i, p := range c.Payments {
			rows[i] = p.record()
		}
		return rows
	}
	return nil
}

// RowCounts maps dataset file name to generated row count.
func (c *Collections) RowCounts() map[string]int {
	return map[string]int{
		UsersFile:      len(c.Users),
		ProductsFile:   len(c.Products),
		OrdersFile:     len(c.Orders),
		OrderItemsFile: len(c.OrderItems),
		PaymentsFile:   len(c.Payments),
	}
}

// WriteCSV writes the five datasets into dir with their fixed headers.
func (c *Collections) WriteCSV(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	for _, file := range DataFiles {
		if err := writeDataset(filepath.Join(dir, file), Columns[file], c.records(file)); err != nil {
			return err
		}
	}
	return nil
}

func writeDataset(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header to %s: %w", path, err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row to %s: %w", path, err)
		}
	}
	w.Flush()
	return w.Error()
}

// ReadDataset reads one dataset file and verifies its header against the
// documented column set.
func ReadDataset(dir, file string) ([][]string, error) {
	path := filepath.Join(dir, file)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("expected dataset %s not found in %s", file, dir)
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}

	want := Columns[file]
	if len(header) != len(want) {
		return nil, fmt.Errorf("%s: expected %d columns, found %d", file, len(want), len(header))
	}
	for i, col := range want {
		if header[i] != col {
			return nil, fmt.Errorf("%s: expected column %q at position %d, found %q", file, col, i, header[i])
		}
	}

	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// HashDatasets returns the SHA-1 over the raw bytes of the five dataset
// files in their fixed order. Used as the content hash of the provenance
// record.
func HashDatasets(dir string) (string, error) {
	digest := sha1.New()
	for _, file := range DataFiles {
		f, err := os.Open(filepath.Join(dir, file))
		if err != nil {
			return "", fmt.Errorf("failed to hash dataset %s: %w", file, err)
		}
		if _, err := io.Copy(digest, f); err != nil {
			f.Close()
			return "", fmt.Errorf("failed to hash dataset %s: %w", file, err)
		}
		f.Close()
	}
	return hex.EncodeToString(digest.Sum(nil)), nil
}
