package db

import "context"

type Column struct {
	Name      string `json:"name"`
	Type      string `json:"type"` // Database type (e.g. text, integer, timestamp)
	Nullable  bool   `json:"nullable"`
	IsPrimary bool   `json:"isPrimary"`
}

type Table struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
}

// Relationship is one foreign-key edge: FromTable.FromColumn references ToTable.
type Relationship struct {
	FromTable  string `json:"fromTable"`
	ToTable    string `json:"toTable"`
	FromColumn string `json:"fromColumn"`
}

// Source provides the schema of some database, however it is reached.
type Source interface {
	Tables(ctx context.Context) ([]Table, error)
	Relationships(ctx context.Context) ([]Relationship, error)
}
