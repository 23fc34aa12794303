// Package diagram renders a database schema as a Markdown document with a
// Mermaid erDiagram block.
package diagram

import (
	"context"
	"fmt"
	"strings"

	db "github.com/cwf-platform/dbops/database"
)

// Generate pulls the schema from src and renders it.
func Generate(ctx context.Context, src db.Source) (string, error) {
	tables, err := src.Tables(ctx)
	if err != nil {
		return "", fmt.Errorf("fetching tables: %v", err)
	}

	relationships, err := src.Relationships(ctx)
	if err != nil {
		return "", fmt.Errorf("fetching relationships: %v", err)
	}

	return Render(tables, relationships), nil
}

// Render produces the document. Each distinct table becomes one entity block
// and each distinct foreign key one relationship line; duplicates are dropped.
func Render(tables []db.Table, relationships []db.Relationship) string {
	var sb strings.Builder

	sb.WriteString("# Database Schema Diagram\n\n")
	sb.WriteString("```mermaid\n")
	sb.WriteString("erDiagram\n")

	seenTables := make(map[string]bool)
	for _, table := range tables {
		if seenTables[table.Name] {
			continue
		}
		seenTables[table.Name] = true

		sb.WriteString(fmt.Sprintf("  %s {\n", table.Name))
		for _, col := range table.Columns {
			pk := ""
			if col.IsPrimary {
				pk = " PK"
			}
			notNull := ""
			if !col.Nullable {
				notNull = " NOT NULL"
			}
			sb.WriteString(fmt.Sprintf("    %s %s%s%s\n", col.Type, col.Name, pk, notNull))
		}
		sb.WriteString("  }\n")
	}

	seenRels := make(map[string]bool)
	for _, rel := range relationships {
		key := fmt.Sprintf("%s:%s:%s", rel.FromTable, rel.ToTable, rel.FromColumn)
		if seenRels[key] {
			continue
		}
		seenRels[key] = true

		// one-to-many, labeled with the referencing column
		sb.WriteString(fmt.Sprintf("  %s ||--o{ %s : %s\n", rel.ToTable, rel.FromTable, rel.FromColumn))
	}

	sb.WriteString("```\n")
	return sb.String()
}
