package slidecast

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// LoadTable reads one user-supplied data file into an ImportedTable.
// CSV files populate Rows; JSON files are expected to hold an array of
// flat objects and populate Records.
func LoadTable(path string) (ImportedTable, error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return ImportedTable{}, IOError("open table", err)
		}
		defer f.Close()
		r := csv.NewReader(f)
		r.FieldsPerRecord = -1
		rows, err := r.ReadAll()
		if err != nil {
			return ImportedTable{}, IOError("parse csv table", err)
		}
		return ImportedTable{Name: name, Rows: rows}, nil
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return ImportedTable{}, IOError("read table", err)
		}
		var records []map[string]interface{}
		if err := json.Unmarshal(data, &records); err != nil {
			return ImportedTable{}, IOError("parse json table", err)
		}
		return ImportedTable{Name: name, Records: records}, nil
	default:
		return ImportedTable{}, IOError("unsupported table format "+filepath.Ext(path), nil)
	}
}

// LoadTables loads every path, failing on the first bad file.
func LoadTables(paths []string) ([]ImportedTable, error) {
	out := make([]ImportedTable, 0, len(paths))
	for _, p := range paths {
		t, err := LoadTable(p)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
