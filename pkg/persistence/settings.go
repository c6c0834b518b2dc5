package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// SettingsVersion is the current version of the settings file format.
const SettingsVersion = 1

// ErrUnsupportedVersion is returned for settings files written by a newer
// format version.
var ErrUnsupportedVersion = errors.New("unsupported settings file version")

// SettingsFile is the on-disk content of a SettingsStore.
type SettingsFile struct {
	// Version is the settings file format version.
	Version int `json:"version"`

	// SavedAt is when the file was last saved.
	SavedAt time.Time `json:"saved_at"`

	// Cameras holds the settings by Key.
	Cameras map[string]CameraSettings `json:"cameras,omitempty"`
}

// CameraSettings are the remembered release settings of one camera.
type CameraSettings struct {
	// Model is the camera model name.
	Model string `json:"model"`

	// Serial is the camera serial number.
	Serial string `json:"serial,omitempty"`

	// SaveTarget is "camera", "host" or "both".
	SaveTarget string `json:"save_target,omitempty"`

	// DownloadDir is where host transfers are written.
	DownloadDir string `json:"download_dir,omitempty"`

	// Properties maps neutral image property names to raw values.
	Properties map[string]uint32 `json:"properties,omitempty"`

	// UpdatedAt is when the settings were last stored.
	UpdatedAt time.Time `json:"updated_at"`
}

// Key returns the store key of the settings.
func (s CameraSettings) Key() string {
	return Key(s.Model, s.Serial)
}

// Key returns the store key for a camera.
func Key(model, serial string) string {
	if serial == "" {
		return model
	}
	return model + "#" + serial
}

// SettingsStore manages persistence of camera settings to a JSON file.
type SettingsStore struct {
	mu   sync.Mutex
	path string
}

// NewSettingsStore creates a new settings store.
func NewSettingsStore(path string) *SettingsStore {
	return &SettingsStore{path: path}
}

// Path returns the settings file path.
func (s *SettingsStore) Path() string {
	return s.path
}

// Load reads the settings file.
// A missing file yields an empty SettingsFile.
func (s *SettingsStore) Load() (*SettingsFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Save persists the settings file to disk.
func (s *SettingsStore) Save(file *SettingsFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(file)
}

// Get returns the settings of a camera.
func (s *SettingsStore) Get(model, serial string) (CameraSettings, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.load()
	if err != nil {
		return CameraSettings{}, false, err
	}
	settings, ok := file.Cameras[Key(model, serial)]
	return settings, ok, nil
}

// Put stores the settings of a camera, replacing earlier settings.
func (s *SettingsStore) Put(settings CameraSettings) error {
	if settings.Model == "" {
		return errors.New("persistence: camera model required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.load()
	if err != nil {
		return err
	}
	if settings.UpdatedAt.IsZero() {
		settings.UpdatedAt = time.Now()
	}
	file.Cameras[settings.Key()] = settings
	return s.save(file)
}

// Delete removes the settings of a camera. Unknown cameras are ignored.
func (s *SettingsStore) Delete(model, serial string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.load()
	if err != nil {
		return err
	}
	key := Key(model, serial)
	if _, ok := file.Cameras[key]; !ok {
		return nil
	}
	delete(file.Cameras, key)
	return s.save(file)
}

// Clear removes the settings file.
func (s *SettingsStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *SettingsStore) load() (*SettingsFile, error) {
	file := &SettingsFile{Version: SettingsVersion}

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		file.Cameras = make(map[string]CameraSettings)
		return file, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(data, file); err != nil {
		return nil, fmt.Errorf("persistence: %s: %w", s.path, err)
	}
	if file.Version > SettingsVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, file.Version)
	}
	if file.Cameras == nil {
		file.Cameras = make(map[string]CameraSettings)
	}
	return file, nil
}

func (s *SettingsStore) save(file *SettingsFile) error {
	// Ensure parent directory exists
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	file.Version = SettingsVersion
	file.SavedAt = time.Now()

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}

	// Write to a temporary file first so a crash never leaves a torn file.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
