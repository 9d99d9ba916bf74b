package simstate

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// FileStore is a MemoryStore that snapshots every mutation to a
// gzip-compressed JSON file, so states survive process restarts within a
// test session without a database.
type FileStore struct {
	mem  *MemoryStore
	path string

	// serializes snapshot writes; the MemoryStore guards the data itself
	mu sync.Mutex
}

var _ Store = (*FileStore)(nil)

// NewFileStore opens (or creates) the snapshot at path and loads any states
// it already holds.
func NewFileStore(path string) (*FileStore, error) {
	fs := &FileStore{mem: NewMemoryStore(), path: path}
	if err := fs.load(); err != nil {
		return nil, errors.Wrapf(err, "loading state snapshot %s", path)
	}
	return fs, nil
}

func (f *FileStore) load() error {
	file, err := os.Open(f.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer file.Close()

	zr, err := gzip.NewReader(file)
	if err != nil {
		return err
	}
	defer zr.Close()

	var states []*DeviceState
	if err := json.NewDecoder(zr).Decode(&states); err != nil {
		return err
	}
	for _, s := range states {
		if s.IncrementCounters == nil {
			s.IncrementCounters = make(map[string]int64)
		}
		if s.LastValues == nil {
			s.LastValues = make(map[string]interface{})
		}
		if err := f.mem.Put(s); err != nil {
			return err
		}
	}
	return nil
}

// persist writes the full snapshot to a temp file and renames it into place,
// so a crash mid-write never corrupts the previous snapshot.
func (f *FileStore) persist() error {
	states, err := f.mem.All()
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	tmp := f.path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return err
	}
	zw := gzip.NewWriter(file)
	if err := json.NewEncoder(zw).Encode(states); err != nil {
		file.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

func (f *FileStore) Get(deviceID string) (*DeviceState, error) {
	return f.mem.Get(deviceID)
}

func (f *FileStore) Put(state *DeviceState) error {
	if err := f.mem.Put(state); err != nil {
		return err
	}
	return f.persist()
}

func (f *FileStore) Update(deviceID string, patch StatePatch) error {
	if err := f.mem.Update(deviceID, patch); err != nil {
		return err
	}
	return f.persist()
}

func (f *FileStore) Reset(deviceID string) error {
	if err := f.mem.Reset(deviceID); err != nil {
		return err
	}
	return f.persist()
}

func (f *FileStore) Delete(deviceID string) error {
	if err := f.mem.Delete(deviceID); err != nil {
		return err
	}
	return f.persist()
}

func (f *FileStore) All() ([]*DeviceState, error) {
	return f.mem.All()
}
