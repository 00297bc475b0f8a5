package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Manager owns the profiles of one game. It is shared with the rest of the
// application; every method takes the lock for the duration of the call only.
type Manager struct {
	mu    sync.Mutex
	store *Store
	game  string
	root  string
	log   *slog.Logger
}

// NewManager creates a manager for game whose profile directories live under root.
func NewManager(store *Store, game, root string, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		store: store,
		game:  game,
		root:  root,
		log:   log,
	}
}

// Game returns the game this manager serves.
func (m *Manager) Game() string { return m.game }

// Profiles returns the game's profiles in index order.
func (m *Manager) Profiles() ([]*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.ListProfiles(m.game)
}

// Profile returns the profile with the given ID. Profiles of other games
// are reported as ErrNotFound.
func (m *Manager) Profile(id int64) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, err := m.store.GetProfile(id)
	if err != nil {
		return nil, err
	}
	if p.Game != m.game {
		return nil, fmt.Errorf("get profile %d: %w", id, ErrNotFound)
	}
	return p, nil
}

// ProfileIndex returns the index of the profile called name.
func (m *Manager) ProfileIndex(name string) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	profiles, err := m.store.ListProfiles(m.game)
	if err != nil {
		m.log.Error("list profiles failed", "error", err)
		return 0, false
	}
	return indexOf(profiles, name)
}

func indexOf(profiles []*Profile, name string) (int, bool) {
	want := NormalizeName(name)
	for i, p := range profiles {
		if NormalizeName(p.Name) == want {
			return i, true
		}
	}
	return 0, false
}

// DeleteProfile removes the profile at index. With purge set, its directory
// is removed as well.
func (m *Manager) DeleteProfile(index int, purge bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	profiles, err := m.store.ListProfiles(m.game)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(profiles) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	return m.deleteLocked(profiles[index], purge)
}

// DeleteByName removes the profile called name if it exists, reporting
// whether one was found. Lookup and deletion happen under a single lock.
func (m *Manager) DeleteByName(name string, purge bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	profiles, err := m.store.ListProfiles(m.game)
	if err != nil {
		return false, err
	}
	i, ok := indexOf(profiles, name)
	if !ok {
		return false, nil
	}
	return true, m.deleteLocked(profiles[i], purge)
}

func (m *Manager) deleteLocked(p *Profile, purge bool) error {
	tx, err := m.store.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := tx.DeleteProfile(p.ID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	if purge {
		if err := ValidatePath(p.Path, m.root); err != nil {
			return err
		}
		if err := os.RemoveAll(p.Path); err != nil {
			return fmt.Errorf("remove profile dir: %w", err)
		}
	}

	m.log.Info("profile deleted", "profile", p.Name, "purge", purge)
	return nil
}

// CreateProfile records a new empty profile and creates its directory.
func (m *Manager) CreateProfile(name, source string) (*Profile, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	path := filepath.Join(m.root, name)
	if err := ValidatePath(path, m.root); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	profiles, err := m.store.ListProfiles(m.game)
	if err != nil {
		return nil, err
	}
	if _, ok := indexOf(profiles, name); ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicate, name)
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("create profile dir: %w", err)
	}

	p := &Profile{Game: m.game, Name: name, Path: path, Source: source}
	if err := m.store.AddProfile(p); err != nil {
		_ = os.RemoveAll(path)
		return nil, err
	}

	m.log.Info("profile created", "profile", name, "path", path)
	return p, nil
}

// AddMod appends a mod to a profile.
func (m *Manager) AddMod(profileID int64, position int, mod Mod) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.AddMod(profileID, position, mod)
}

// Mods returns a profile's mods in order.
func (m *Manager) Mods(profileID int64) ([]Mod, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.ListMods(profileID)
}
