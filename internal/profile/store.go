package profile

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// querier abstracts *sql.DB and *sql.Tx for shared query logic.
type querier interface {
	QueryRow(query string, args ...any) *sql.Row
	Query(query string, args ...any) (*sql.Rows, error)
	Exec(query string, args ...any) (sql.Result, error)
}

// Store provides access to profile records.
type Store struct {
	db *sql.DB
}

// NewStore creates a new profile store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Begin starts a transaction.
func (s *Store) Begin() (*Tx, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &Tx{tx: tx}, nil
}

// Tx wraps a database transaction with the same methods as Store.
type Tx struct {
	tx *sql.Tx
}

// Commit commits the transaction.
func (t *Tx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction.
func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}

// mapSQLiteError converts SQLite errors to package errors.
func mapSQLiteError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	// modernc.org/sqlite wraps errors; check the message for constraint violations
	errStr := err.Error()
	if strings.Contains(errStr, "UNIQUE constraint failed") {
		return ErrDuplicate
	}
	return err
}

func addProfile(q querier, p *Profile) error {
	now := time.Now()
	result, err := q.Exec(`
		INSERT INTO profiles (game, name, path, source, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		p.Game, p.Name, p.Path, p.Source, now,
	)
	if err != nil {
		return fmt.Errorf("insert profile: %w", mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	p.ID = id
	p.CreatedAt = now
	return nil
}

// AddProfile inserts a profile. Sets ID and CreatedAt on the struct.
func (s *Store) AddProfile(p *Profile) error { return addProfile(s.db, p) }

// AddProfile inserts a profile within a transaction.
func (t *Tx) AddProfile(p *Profile) error { return addProfile(t.tx, p) }

func getProfile(q querier, id int64) (*Profile, error) {
	p := &Profile{}
	err := q.QueryRow(`
		SELECT id, game, name, path, source, created_at
		FROM profiles WHERE id = ?`, id,
	).Scan(&p.ID, &p.Game, &p.Name, &p.Path, &p.Source, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get profile %d: %w", id, mapSQLiteError(err))
	}
	return p, nil
}

// GetProfile retrieves a profile by ID.
// Returns ErrNotFound if the profile does not exist.
func (s *Store) GetProfile(id int64) (*Profile, error) { return getProfile(s.db, id) }

// ListProfiles returns the profiles of game in creation order.
func (s *Store) ListProfiles(game string) ([]*Profile, error) {
	rows, err := s.db.Query(`
		SELECT id, game, name, path, source, created_at
		FROM profiles WHERE game = ? ORDER BY id ASC`, game,
	)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Profile
	for rows.Next() {
		p := &Profile{}
		if err := rows.Scan(&p.ID, &p.Game, &p.Name, &p.Path, &p.Source, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		results = append(results, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}
	return results, nil
}

func deleteProfile(q querier, id int64) error {
	if _, err := q.Exec(`DELETE FROM profile_mods WHERE profile_id = ?`, id); err != nil {
		return fmt.Errorf("delete profile mods: %w", err)
	}
	result, err := q.Exec(`DELETE FROM profiles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteProfile removes a profile and its mods within a transaction.
func (t *Tx) DeleteProfile(id int64) error { return deleteProfile(t.tx, id) }

func addMod(q querier, profileID int64, position int, m Mod) error {
	_, err := q.Exec(`
		INSERT INTO profile_mods (profile_id, position, full_name, version, enabled)
		VALUES (?, ?, ?, ?, ?)`,
		profileID, position, m.FullName, m.Version, m.Enabled,
	)
	if err != nil {
		return fmt.Errorf("insert mod %s: %w", m.FullName, mapSQLiteError(err))
	}
	return nil
}

// AddMod appends a mod to a profile at the given position.
func (s *Store) AddMod(profileID int64, position int, m Mod) error {
	return addMod(s.db, profileID, position, m)
}

// AddMod appends a mod to a profile within a transaction.
func (t *Tx) AddMod(profileID int64, position int, m Mod) error {
	return addMod(t.tx, profileID, position, m)
}

// ListMods returns a profile's mods in position order.
func (s *Store) ListMods(profileID int64) ([]Mod, error) {
	rows, err := s.db.Query(`
		SELECT full_name, version, enabled
		FROM profile_mods WHERE profile_id = ? ORDER BY position ASC`, profileID,
	)
	if err != nil {
		return nil, fmt.Errorf("list mods: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []Mod
	for rows.Next() {
		var m Mod
		if err := rows.Scan(&m.FullName, &m.Version, &m.Enabled); err != nil {
			return nil, fmt.Errorf("scan mod: %w", err)
		}
		results = append(results, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mods: %w", err)
	}
	return results, nil
}
