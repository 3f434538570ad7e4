package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// recordSchemaState stores the applied manifest in the single-row
// schema_state table.
func recordSchemaState(ctx context.Context, db *sql.DB, m Manifest) error {
	if db == nil {
		return errors.New("schema state requires database handle")
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO schema_state (id, schema_version, checksum, applied_at)
		VALUES (TRUE, $1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET schema_version = EXCLUDED.schema_version,
		    checksum = EXCLUDED.checksum,
		    applied_at = EXCLUDED.applied_at
	`, strconv.FormatUint(uint64(m.Version), 10), m.Checksum, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("record schema state: %w", err)
	}
	return nil
}
