package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"gorm.io/gorm/schema"
)

var (
	sqlFileRe     = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)
	createTableRe = regexp.MustCompile(`(?i)CREATE\s+TABLE\s+(?:IF\s+NOT\s+EXISTS\s+)?"?([a-z0-9_]+)"?`)
	createIndexRe = regexp.MustCompile(`(?i)CREATE\s+(?:UNIQUE\s+)?INDEX\s+(?:IF\s+NOT\s+EXISTS\s+)?"?([a-z0-9_]+)"?\s+ON\s+"?([a-z0-9_]+)"?`)
)

// ValidateDir checks migration filenames and goose markers, and that every table or
// index a migration creates belongs to one of the registered gorm models. Index names
// must start with idx_<table>_ so the sqlite AutoMigrate schema and the Postgres
// migrations name things the same way.
func ValidateDir(dir string) error {
	_, err := scanDir(dir)
	return err
}

// CheckModelsCovered fails when a registered model has no CREATE TABLE in dir.
func CheckModelsCovered(dir string) error {
	created, err := scanDir(dir)
	if err != nil {
		return err
	}
	owned, err := ownedTables()
	if err != nil {
		return err
	}
	var missing []string
	for table := range owned {
		if _, ok := created[table]; !ok {
			missing = append(missing, table)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("no migration creates %s", strings.Join(missing, ", "))
	}
	return nil
}

// scanDir validates every .sql file in dir and returns the tables they create.
func scanDir(dir string) (map[string]string, error) {
	if dir == "" {
		return nil, fmt.Errorf("dir is required")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %q: %w", dir, err)
	}
	owned, err := ownedTables()
	if err != nil {
		return nil, err
	}

	versions := map[string]string{}
	created := map[string]string{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}

		m := sqlFileRe.FindStringSubmatch(name)
		if m == nil {
			return nil, fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
		}
		if prev, ok := versions[m[1]]; ok {
			return nil, fmt.Errorf("duplicate migration version %s in %q and %q", m[1], prev, name)
		}
		versions[m[1]] = name

		full := filepath.Join(dir, name)
		b, err := os.ReadFile(full)
		if err != nil {
			return nil, fmt.Errorf("read file %q: %w", full, err)
		}
		if err := checkMigration(name, string(b), owned, created); err != nil {
			return nil, err
		}
	}
	return created, nil
}

func checkMigration(name, txt string, owned map[string]struct{}, created map[string]string) error {
	up, _, found := strings.Cut(txt, "-- +goose Down")
	if !strings.Contains(up, "-- +goose Up") {
		return fmt.Errorf("migration %q missing \"-- +goose Up\"", name)
	}
	if !found {
		return fmt.Errorf("migration %q missing \"-- +goose Down\"", name)
	}

	for _, m := range createTableRe.FindAllStringSubmatch(up, -1) {
		table := strings.ToLower(m[1])
		if _, ok := owned[table]; !ok {
			return fmt.Errorf("migration %q creates %s, which no registered model maps to", name, table)
		}
		created[table] = name
	}
	for _, m := range createIndexRe.FindAllStringSubmatch(up, -1) {
		index, table := strings.ToLower(m[1]), strings.ToLower(m[2])
		if _, ok := owned[table]; !ok {
			return fmt.Errorf("migration %q indexes %s, which no registered model maps to", name, table)
		}
		if !strings.HasPrefix(index, "idx_"+table+"_") {
			return fmt.Errorf("migration %q: index %s must be named idx_%s_<columns>", name, index, table)
		}
	}
	return nil
}

// ownedTables resolves the table names of Models with gorm's default naming.
func ownedTables() (map[string]struct{}, error) {
	cache := &sync.Map{}
	tables := make(map[string]struct{}, len(Models))
	for _, model := range Models {
		s, err := schema.Parse(model, cache, schema.NamingStrategy{})
		if err != nil {
			return nil, fmt.Errorf("parse model %T: %w", model, err)
		}
		tables[s.Table] = struct{}{}
	}
	return tables, nil
}
