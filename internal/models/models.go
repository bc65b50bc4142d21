package models

import (
	"fmt"
	"time"

	"github.com/desertthunder/lyrx/internal/shared"
)

// Model defines the base interface for persistent models.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	Validate() error      // Validate checks the model's data and returns an error if it is invalid
}

// Repository defines the data access operations of the record store.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Delete(id string) error                    // Delete soft-deletes a model by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves models matching the criteria
}

// StoredTable is a projected table persisted by the record store.
//
// Source is the command or API path the rows came from, e.g. "/artists/16775/songs".
type StoredTable struct {
	TableID   string
	Sequence  int
	Kind      string
	Source    string
	Fields    []string
	RowCount  int
	Created   time.Time
	DeletedAt *time.Time
	Rows      []StoredRow
}

// StoredRow is one row of a stored table, serialized as an ordered JSON object.
type StoredRow struct {
	Position int
	Data     []byte
}

func (t *StoredTable) ID() string           { return t.TableID }
func (t *StoredTable) CreatedAt() time.Time { return t.Created }

// Validate checks that the table has an id, a kind and at least one field.
func (t *StoredTable) Validate() error {
	switch {
	case t.TableID == "":
		return fmt.Errorf("%w: table id is required", shared.ErrInvalidInput)
	case t.Kind == "":
		return fmt.Errorf("%w: table kind is required", shared.ErrInvalidInput)
	case len(t.Fields) == 0:
		return fmt.Errorf("%w: table has no fields", shared.ErrInvalidInput)
	case len(t.Rows) > 0 && len(t.Rows) != t.RowCount:
		return fmt.Errorf("%w: row count %d does not match %d rows", shared.ErrInvalidInput, t.RowCount, len(t.Rows))
	}
	return nil
}
