package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// Event identifies a session event that feedback plugins can bind to.
type Event string

const (
	// EventRep fires when a repetition is counted.
	EventRep Event = "rep"
	// EventPhase fires when the repetition phase changes.
	EventPhase Event = "phase"
	// EventForm fires when form validity flips.
	EventForm Event = "form"
)

// Valid reports whether e is one of the defined events.
func (e Event) Valid() bool {
	return e == EventRep || e == EventPhase || e == EventForm
}

// Binding maps a session event to a feedback plugin.
type Binding struct {
	ID         string
	Event      Event
	PluginName string
	Config     json.RawMessage
	Enabled    bool
	CreatedAt  time.Time
}

// BindingRepository provides CRUD operations for feedback bindings.
type BindingRepository struct {
	db *sql.DB
}

// Bindings returns the binding repository for this store.
func (s *Store) Bindings() *BindingRepository {
	return &BindingRepository{db: s.db}
}

// Create inserts a new binding into the database.
func (r *BindingRepository) Create(b *Binding) error {
	if len(b.Config) == 0 {
		b.Config = json.RawMessage(`{}`)
	}
	b.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO bindings (id, event, plugin_name, config, enabled, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		b.ID, string(b.Event), b.PluginName, string(b.Config), boolToInt(b.Enabled), b.CreatedAt,
	)
	return err
}

// GetByID retrieves a binding by its ID.
func (r *BindingRepository) GetByID(id string) (*Binding, error) {
	row := r.db.QueryRow(
		`SELECT id, event, plugin_name, config, enabled, created_at
		 FROM bindings WHERE id = ?`, id)

	b, err := scanBinding(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

// List retrieves all bindings.
func (r *BindingRepository) List() ([]*Binding, error) {
	return r.list(`SELECT id, event, plugin_name, config, enabled, created_at
		 FROM bindings ORDER BY created_at DESC`)
}

// ListEnabledByEvent retrieves the enabled bindings for one event.
func (r *BindingRepository) ListEnabledByEvent(event Event) ([]*Binding, error) {
	return r.list(`SELECT id, event, plugin_name, config, enabled, created_at
		 FROM bindings WHERE event = ? AND enabled = 1 ORDER BY created_at`, string(event))
}

func (r *BindingRepository) list(query string, args ...any) ([]*Binding, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bindings []*Binding
	for rows.Next() {
		b, err := scanBinding(rows.Scan)
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return bindings, nil
}

func scanBinding(scan func(dest ...any) error) (*Binding, error) {
	b := &Binding{}
	var event, config string
	var enabled int

	if err := scan(&b.ID, &event, &b.PluginName, &config, &enabled, &b.CreatedAt); err != nil {
		return nil, err
	}

	b.Event = Event(event)
	b.Config = json.RawMessage(config)
	b.Enabled = enabled != 0
	return b, nil
}

// Update updates an existing binding.
func (r *BindingRepository) Update(b *Binding) error {
	if len(b.Config) == 0 {
		b.Config = json.RawMessage(`{}`)
	}

	result, err := r.db.Exec(
		`UPDATE bindings SET event = ?, plugin_name = ?, config = ?, enabled = ?
		 WHERE id = ?`,
		string(b.Event), b.PluginName, string(b.Config), boolToInt(b.Enabled), b.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a binding by its ID.
func (r *BindingRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM bindings WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
