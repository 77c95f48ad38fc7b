package slidecast

import (
	"path/filepath"
	"testing"
)

func TestLoadTableCSV(t *testing.T) {
	path := writeTempFile(t, "sales.csv", "month,units\nJan,120\nFeb,95\n")
	table, err := LoadTable(path)
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	if table.Name != "sales" {
		t.Errorf("name = %q", table.Name)
	}
	if len(table.Rows) != 3 || table.Rows[1][0] != "Jan" {
		t.Errorf("rows = %v", table.Rows)
	}
}

func TestLoadTableJSON(t *testing.T) {
	path := writeTempFile(t, "growth.json", `[{"name":"Q1","value":4.5},{"name":"Q2","value":6}]`)
	table, err := LoadTable(path)
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	if len(table.Records) != 2 {
		t.Fatalf("records = %v", table.Records)
	}
	if table.Records[0]["name"] != "Q1" {
		t.Errorf("record 0 = %v", table.Records[0])
	}
}

func TestLoadTableUnsupported(t *testing.T) {
	path := writeTempFile(t, "data.xlsx", "binary")
	if _, err := LoadTable(path); err == nil {
		t.Fatal("unsupported format must fail")
	}
}

func TestLoadTablesPropagatesFailure(t *testing.T) {
	good := writeTempFile(t, "a.csv", "h,v\nx,1\n")
	if _, err := LoadTables([]string{good, filepath.Join(t.TempDir(), "missing.csv")}); err == nil {
		t.Fatal("missing file must fail the batch")
	}
}
