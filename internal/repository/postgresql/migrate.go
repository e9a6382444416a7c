package postgresql

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/cmlabs-hris/shift-backend-go/internal/pkg/database"
)

//go:embed schema.sql
var schema string

// Migrate creates any missing tables and indexes. It is safe to run on every
// start.
func Migrate(ctx context.Context, db *database.DB) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
