package query

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidateReadOnly(t *testing.T) {
	cases := []struct {
		name    string
		sql     string
		wantErr bool
	}{
		{"select", "SELECT 1", false},
		{"select lower", "select user_id from users", false},
		{"cte", "WITH t AS (SELECT 1) SELECT * FROM t", false},
		{"explain", "EXPLAIN QUERY PLAN SELECT 1", false},
		{"delete", "DELETE FROM users", true},
		{"insert", "INSERT INTO users VALUES (1)", true},
		{"drop", "DROP TABLE users", true},
		{"empty", "   ", true},
	}

	for _, tc := range cases {
		def := Definition{Name: tc.name, SQL: tc.sql}
		err := def.Validate()
		if tc.wantErr && err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("%s: unexpected error: %v", tc.name, err)
		}
	}
}

func TestValidateRequiresName(t *testing.T) {
	def := Definition{SQL: "SELECT 1"}
	if err := def.Validate(); err == nil {
		t.Error("expected error for unnamed definition")
	}
}

func TestLoadDefinitions(t *testing.T) {
	content := `queries:
  - name: row_count
    description: Count users.
    sql: SELECT COUNT(*) FROM users
  - name: all_orders
    sql: SELECT * FROM orders
`
	path := filepath.Join(t.TempDir(), "queries.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	defs, err := LoadDefinitions(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(defs) != 2 {
		t.Fatalf("expected 2 definitions, got %d", len(defs))
	}
	if defs[0].Name != "row_count" || defs[0].Description == "" {
		t.Errorf("unexpected first definition: %+v", defs[0])
	}

	def, err := Find(path, "all_orders")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if def.Name != "all_orders" {
		t.Errorf("found wrong definition: %+v", def)
	}

	if _, err := Find(path, "missing"); err == nil {
		t.Error("expected error for unknown query name")
	}
}

func TestLoadDefinitionsEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queries.yaml")
	if err := os.WriteFile(path, []byte("queries: []\n"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if _, err := LoadDefinitions(path); err == nil {
		t.Error("expected error for empty definitions file")
	}
}

func TestFromSQLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "join_query.sql")
	if err := os.WriteFile(path, []byte("SELECT 1"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	def, err := FromSQLFile(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if def.Name != "join_query" {
		t.Errorf("expected name join_query, got %s", def.Name)
	}
	if err := def.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}
