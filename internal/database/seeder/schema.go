package seeder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"skillbridge/internal/database"
)

// requireColumns fails when the migrated schema lacks any of columns, naming
// all of them at once.
func requireColumns(ctx context.Context, ex database.Executor, table string, columns ...string) error {
	if table == "" {
		return errors.New("empty table")
	}

	rows, err := ex.Query(ctx,
		`SELECT column_name FROM information_schema.columns WHERE table_schema = 'public' AND table_name = $1`,
		table,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	existing := make(map[string]bool)
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return err
		}
		existing[c] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}

	var missing []string
	for _, col := range columns {
		if !existing[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("schema mismatch: %s is missing %s", table, strings.Join(missing, ", "))
	}
	return nil
}
