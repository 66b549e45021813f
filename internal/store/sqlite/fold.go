package sqlite

import (
	"database/sql/driver"
	"strings"

	moderncsqlite "modernc.org/sqlite"
)

// foldFunc lower-cases with Unicode rules. SQLite's own LIKE only folds ASCII,
// so "MÜLLER" would not match "Müller" without it.
const foldFunc = "fold"

func init() {
	moderncsqlite.MustRegisterDeterministicScalarFunction(foldFunc, 1, fold)
}

func fold(_ *moderncsqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}
