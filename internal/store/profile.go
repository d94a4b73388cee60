package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/vyayam/internal/exercise"
)

// Profile represents a stored exercise profile with its database metadata.
type Profile struct {
	ID         string
	Definition *exercise.Profile
	Samples    int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ProfileRepository provides CRUD operations for exercise profiles.
type ProfileRepository struct {
	db *sql.DB
}

// Profiles returns the profile repository for this store.
func (s *Store) Profiles() *ProfileRepository {
	return &ProfileRepository{db: s.db}
}

// Seed inserts the built-in profiles for any exercise kind not yet present.
func (r *ProfileRepository) Seed() error {
	for _, kind := range []exercise.Kind{exercise.KindPushup, exercise.KindSitup} {
		_, err := r.GetByKind(kind)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return err
		}

		builtin, err := exercise.BuiltinProfile(kind)
		if err != nil {
			return err
		}
		if err := r.Create(&Profile{ID: uuid.NewString(), Definition: builtin}); err != nil {
			return err
		}
	}
	return nil
}

// Create inserts a new profile into the database. The definition is
// validated first; a profile that breaks the hysteresis invariant never
// reaches the database.
func (r *ProfileRepository) Create(p *Profile) error {
	if err := p.Definition.Validate(); err != nil {
		return err
	}

	definition, err := json.Marshal(p.Definition)
	if err != nil {
		return fmt.Errorf("marshal profile definition: %w", err)
	}

	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err = r.db.Exec(
		`INSERT INTO profiles (id, kind, name, confidence_floor, contract_below,
		    contract_threshold, extend_threshold, min_threshold_gap, definition,
		    samples, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, string(p.Definition.Kind), p.Definition.Name,
		p.Definition.ConfidenceFloor, boolToInt(p.Definition.ContractBelow),
		p.Definition.ContractThreshold, p.Definition.ExtendThreshold,
		p.Definition.MinThresholdGap, string(definition),
		p.Samples, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

// GetByID retrieves a profile by its ID.
func (r *ProfileRepository) GetByID(id string) (*Profile, error) {
	return r.get(`SELECT id, definition, samples, created_at, updated_at
		 FROM profiles WHERE id = ?`, id)
}

// GetByKind retrieves the profile for an exercise kind.
func (r *ProfileRepository) GetByKind(kind exercise.Kind) (*Profile, error) {
	return r.get(`SELECT id, definition, samples, created_at, updated_at
		 FROM profiles WHERE kind = ?`, string(kind))
}

func (r *ProfileRepository) get(query string, arg any) (*Profile, error) {
	p := &Profile{}
	var definition string

	err := r.db.QueryRow(query, arg).
		Scan(&p.ID, &definition, &p.Samples, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal([]byte(definition), &p.Definition); err != nil {
		return nil, fmt.Errorf("unmarshal profile definition: %w", err)
	}
	return p, nil
}

// List retrieves all profiles from the database.
func (r *ProfileRepository) List() ([]*Profile, error) {
	rows, err := r.db.Query(
		`SELECT id, definition, samples, created_at, updated_at
		 FROM profiles ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*Profile
	for rows.Next() {
		p := &Profile{}
		var definition string

		if err := rows.Scan(&p.ID, &definition, &p.Samples, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(definition), &p.Definition); err != nil {
			return nil, fmt.Errorf("unmarshal profile definition: %w", err)
		}
		profiles = append(profiles, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return profiles, nil
}

// Update replaces a profile's definition. The new definition is validated
// before it is written.
func (r *ProfileRepository) Update(p *Profile) error {
	if err := p.Definition.Validate(); err != nil {
		return err
	}

	definition, err := json.Marshal(p.Definition)
	if err != nil {
		return fmt.Errorf("marshal profile definition: %w", err)
	}

	p.UpdatedAt = time.Now()

	result, err := r.db.Exec(
		`UPDATE profiles SET kind = ?, name = ?, confidence_floor = ?,
		    contract_below = ?, contract_threshold = ?, extend_threshold = ?,
		    min_threshold_gap = ?, definition = ?, samples = ?, updated_at = ?
		 WHERE id = ?`,
		string(p.Definition.Kind), p.Definition.Name,
		p.Definition.ConfidenceFloor, boolToInt(p.Definition.ContractBelow),
		p.Definition.ContractThreshold, p.Definition.ExtendThreshold,
		p.Definition.MinThresholdGap, string(definition),
		p.Samples, p.UpdatedAt, p.ID,
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

// Delete removes a profile from the database by its ID.
func (r *ProfileRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM profiles WHERE id = ?`, id)
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

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
