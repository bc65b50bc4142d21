package repositories

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/lyrx/internal/models"
	"github.com/desertthunder/lyrx/internal/records"
	"github.com/desertthunder/lyrx/internal/shared"
)

const tableColumns = "id, sequence, kind, source, fields, row_count, created_at, deleted_at"

// RecordRepository implements models.Repository[*models.StoredTable].
type RecordRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.StoredTable] = (*RecordRepository)(nil)

// NewRecordRepository creates a new RecordRepository with the given database connection
func NewRecordRepository(db *sql.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// Save stores a projected table under kind, recording where it came from.
func (r *RecordRepository) Save(kind, source string, t records.Table) (*models.StoredTable, error) {
	stored := &models.StoredTable{
		Kind:     kind,
		Source:   source,
		Fields:   t.Columns(),
		RowCount: t.Len(),
		Rows:     make([]models.StoredRow, t.Len()),
	}

	for i, row := range t.Rows {
		data, err := json.Marshal(row)
		if err != nil {
			return nil, fmt.Errorf("failed to encode row %d: %w", i, err)
		}
		stored.Rows[i] = models.StoredRow{Position: i, Data: data}
	}

	if err := r.Create(stored); err != nil {
		return nil, err
	}
	return stored, nil
}

// Create inserts the table header and its rows in one transaction with a generated ID and sequence
func (r *RecordRepository) Create(t *models.StoredTable) error {
	sequence, err := NextSequence(r.db, "record_tables")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	t.TableID = shared.GenerateID()
	t.Sequence = sequence
	t.Created = time.Now().UTC()
	if t.RowCount == 0 {
		t.RowCount = len(t.Rows)
	}

	if err := t.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fields, err := json.Marshal(t.Fields)
	if err != nil {
		return fmt.Errorf("failed to encode fields: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO record_tables (id, sequence, kind, source, fields, row_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, t.TableID, t.Sequence, t.Kind, t.Source, string(fields), t.RowCount, t.Created)
	if err != nil {
		return fmt.Errorf("failed to insert table: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO record_rows (table_id, position, data) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare row insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range t.Rows {
		if _, err := stmt.Exec(t.TableID, row.Position, string(row.Data)); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", row.Position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit table: %w", err)
	}
	return nil
}

// Get retrieves a table and its rows by ID, excluding soft-deleted tables
func (r *RecordRepository) Get(id string) (*models.StoredTable, error) {
	query := "SELECT " + tableColumns + " FROM record_tables WHERE id = ? AND deleted_at IS NULL"
	return r.withRows(r.scanOne(r.db.QueryRow(query, id), id))
}

// GetBySequence retrieves a table by its sequence number
func (r *RecordRepository) GetBySequence(sequence int) (*models.StoredTable, error) {
	query := "SELECT " + tableColumns + " FROM record_tables WHERE sequence = ? AND deleted_at IS NULL"
	return r.withRows(r.scanOne(r.db.QueryRow(query, sequence), "#"+strconv.Itoa(sequence)))
}

// Find accepts either a table ID or a sequence reference such as "15" or "#15".
func (r *RecordRepository) Find(ref string) (*models.StoredTable, error) {
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(strings.TrimPrefix(ref, "#")); err == nil {
		return r.GetBySequence(n)
	}
	return r.Get(ref)
}

// Delete soft-deletes a table by ID
func (r *RecordRepository) Delete(id string) error {
	result, err := r.db.Exec(`
		UPDATE record_tables
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to delete table: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: table %s not found or already deleted", shared.ErrNotFound, id)
	}

	return nil
}

// List retrieves table headers (without rows) matching the criteria, excluding soft-deleted tables.
//
// Supported criteria: "kind" (string) and "limit" (int).
func (r *RecordRepository) List(criteria map[string]any) ([]*models.StoredTable, error) {
	query := "SELECT " + tableColumns + " FROM record_tables WHERE deleted_at IS NULL"
	args := []any{}

	if kind, ok := criteria["kind"].(string); ok && kind != "" {
		query += " AND kind = ?"
		args = append(args, kind)
	}

	query += " ORDER BY sequence ASC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	var tables []*models.StoredTable
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return tables, nil
}

// Restore rebuilds a records.Table from a stored table, keeping column order.
//
// Numbers come back as json.Number, like a fresh API response.
func Restore(t *models.StoredTable) (records.Table, error) {
	schema := make(records.Schema, len(t.Fields))
	for i, f := range t.Fields {
		schema[i] = records.Field{Name: f, Path: f}
	}

	out := records.Table{Schema: schema, Rows: make([]records.Record, 0, len(t.Rows))}
	for _, row := range t.Rows {
		dec := json.NewDecoder(bytes.NewReader(row.Data))
		dec.UseNumber()

		var obj map[string]any
		if err := dec.Decode(&obj); err != nil {
			return records.Table{}, fmt.Errorf("failed to decode row %d: %w", row.Position, err)
		}
		out.Rows = append(out.Rows, records.Project(obj, schema))
	}
	return out, nil
}

func (r *RecordRepository) withRows(t *models.StoredTable, err error) (*models.StoredTable, error) {
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query("SELECT position, data FROM record_rows WHERE table_id = ? ORDER BY position ASC", t.TableID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rows: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			position int
			data     string
		)
		if err := rows.Scan(&position, &data); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		t.Rows = append(t.Rows, models.StoredRow{Position: position, Data: []byte(data)})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return t, nil
}

// scanOne scans a single row into a [models.StoredTable]
func (r *RecordRepository) scanOne(row *sql.Row, ref string) (*models.StoredTable, error) {
	t, err := scanTable(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: table %s", shared.ErrNotFound, ref)
	}
	return t, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTable(s scanner) (*models.StoredTable, error) {
	var (
		t         models.StoredTable
		fields    string
		deletedAt sql.NullTime
	)

	err := s.Scan(&t.TableID, &t.Sequence, &t.Kind, &t.Source, &fields, &t.RowCount, &t.Created, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan table: %w", err)
	}

	if err := json.Unmarshal([]byte(fields), &t.Fields); err != nil {
		return nil, fmt.Errorf("failed to decode fields: %w", err)
	}
	if deletedAt.Valid {
		t.DeletedAt = &deletedAt.Time
	}

	return &t, nil
}
