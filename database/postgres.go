package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Manager runs schema queries over a direct PostgreSQL connection.
type Manager struct {
	DB *sql.DB
}

func (m *Manager) ConnectWithDSN(dsn string) error {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return err
	}
	m.DB = db
	return nil
}

func (m *Manager) Close() error {
	if m.DB == nil {
		return nil
	}
	return m.DB.Close()
}

// Ping verifies the connection is usable. sql.Open alone does not dial.
func (m *Manager) Ping(ctx context.Context) error {
	if m.DB == nil {
		return errors.New("no database connection")
	}
	return m.DB.PingContext(ctx)
}

// Now returns the server's current timestamp. Used by the connectivity check.
func (m *Manager) Now(ctx context.Context) (time.Time, error) {
	if m.DB == nil {
		return time.Time{}, errors.New("no database connection")
	}
	var now time.Time
	if err := m.DB.QueryRowContext(ctx, "SELECT NOW();").Scan(&now); err != nil {
		return time.Time{}, fmt.Errorf("querying current time: %v", err)
	}
	return now, nil
}

func (m *Manager) Tables(ctx context.Context) ([]Table, error) {
	if m.DB == nil {
		return nil, errors.New("no database connection")
	}

	rows, err := m.DB.QueryContext(ctx, TablesQuery)
	if err != nil {
		return nil, fmt.Errorf("querying tables: %v", err)
	}
	defer rows.Close()

	var tables []Table
	for rows.Next() {
		var tableName string
		var columnsJSON []byte
		if err := rows.Scan(&tableName, &columnsJSON); err != nil {
			return nil, fmt.Errorf("scanning table row: %v", err)
		}

		columns, err := DecodeColumns(columnsJSON)
		if err != nil {
			return nil, fmt.Errorf("decoding columns for %s: %v", tableName, err)
		}

		tables = append(tables, Table{
			Name:    tableName,
			Columns: columns,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tables, nil
}

func (m *Manager) Relationships(ctx context.Context) ([]Relationship, error) {
	if m.DB == nil {
		return nil, errors.New("no database connection")
	}

	rows, err := m.DB.QueryContext(ctx, RelationshipsQuery)
	if err != nil {
		return nil, fmt.Errorf("querying relationships: %v", err)
	}
	defer rows.Close()

	var rels []Relationship
	for rows.Next() {
		var rel Relationship
		if err := rows.Scan(&rel.FromTable, &rel.ToTable, &rel.FromColumn); err != nil {
			return nil, fmt.Errorf("scanning relationship row: %v", err)
		}
		rels = append(rels, rel)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rels, nil
}

// ColumnRecord is the wire form of one column as produced by TablesQuery,
// whether it arrives from a direct query or a Lambda response.
type ColumnRecord struct {
	Column   string `json:"column"`
	Type     string `json:"type"`
	Nullable string `json:"nullable"` // information_schema YES/NO
	IsPK     bool   `json:"is_pk"`
}

// DecodeColumns parses a columns payload into Column values. The payload is a
// JSON array of ColumnRecord, but some paths deliver it as a JSON string
// containing that array, so both forms are accepted.
func DecodeColumns(raw []byte) ([]Column, error) {
	var nested string
	if err := json.Unmarshal(raw, &nested); err == nil {
		raw = []byte(nested)
	}

	var records []ColumnRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("parsing column records: %v", err)
	}

	columns := make([]Column, 0, len(records))
	for _, rec := range records {
		columns = append(columns, Column{
			Name:      rec.Column,
			Type:      rec.Type,
			Nullable:  rec.Nullable == "YES",
			IsPrimary: rec.IsPK,
		})
	}
	return columns, nil
}
