package database

import (
	"context"
	_ "embed"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
)

//go:embed schema.sql
var schema string

// Schema renders the schema for the given embedding dimensionality.
func Schema(dimensions int) string {
	return strings.ReplaceAll(schema, "{{dimensions}}", strconv.Itoa(dimensions))
}

// Migrate creates the tables and the match_document_chunks search function.
// Every statement is idempotent.
func Migrate(ctx context.Context, db *sqlx.DB, dimensions int) error {
	if dimensions <= 0 {
		return fmt.Errorf("invalid embedding dimensions: %d", dimensions)
	}
	if _, err := db.ExecContext(ctx, Schema(dimensions)); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
