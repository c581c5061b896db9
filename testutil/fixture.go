// Package testutil provides declarative, TOML-described table
// fixtures for backend tests, the same schema-from-TOML shape
// Pieczasz-smf's internal/parser/toml package reads migration DDL
// from, repurposed here for seeding test tables instead of generating
// SQL.
package testutil

import (
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/mstgnz/sqldb"
)

type columnFixture struct {
	Name string `toml:"name"`
	Type string `toml:"type"`
}

type rowFixture struct {
	Cells []string `toml:"cells"`
}

type schemaFixture struct {
	Column []columnFixture `toml:"column"`
	Row    []rowFixture    `toml:"row"`
}

var columnTypeByName = map[string]sqldb.ColumnType{
	"ANY":      sqldb.ANY,
	"INT":      sqldb.INT,
	"INT64":    sqldb.INT64,
	"CHAR":     sqldb.CHAR,
	"BOOL":     sqldb.BOOL,
	"VARCHAR":  sqldb.VARCHAR,
	"TEXT":     sqldb.TEXT,
	"DATETIME": sqldb.DATETIME,
	"DATE":     sqldb.DATE,
	"FLOAT":    sqldb.FLOAT,
	"DOUBLE":   sqldb.DOUBLE,
	"URL":      sqldb.URL,
	"BLOB":     sqldb.BLOB,
	"VECTOR":   sqldb.VECTOR,
}

// Fixture is a parsed table schema plus seed rows.
type Fixture struct {
	Columns []sqldb.Column
	Rows    [][]string
}

// LoadFixture parses a TOML document of the form:
//
//	[[column]]
//	name = "id"
//	type = "INT64"
//
//	[[row]]
//	cells = ["1", "alice"]
//
// An unrecognized type name resolves to sqldb.ANY rather than failing
// the parse, since a fixture typo should surface as a wrong-type test
// failure, not a parse error.
func LoadFixture(data string) (Fixture, error) {
	var parsed schemaFixture
	if _, err := toml.Decode(strings.TrimSpace(data), &parsed); err != nil {
		return Fixture{}, err
	}

	fx := Fixture{
		Columns: make([]sqldb.Column, len(parsed.Column)),
		Rows:    make([][]string, len(parsed.Row)),
	}
	for i, c := range parsed.Column {
		t, ok := columnTypeByName[c.Type]
		if !ok {
			t = sqldb.ANY
		}
		fx.Columns[i] = sqldb.Column{Name: c.Name, Type: t}
	}
	for i, r := range parsed.Row {
		fx.Rows[i] = r.Cells
	}
	return fx, nil
}
