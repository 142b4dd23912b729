package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/stefanpenner/quadrant/pkg/task"
	"gopkg.in/yaml.v3"
)

// DefaultSlotName is the name of the data slot, kept from the browser
// localStorage key older versions used.
const DefaultSlotName = "todoTasks"

// Slot loads and saves the ordered task list as a whole.
type Slot interface {
	Load() ([]*task.Task, error)
	Save(tasks []*task.Task) error
}

// FileSlot stores the task list as a YAML sequence in a single file.
type FileSlot struct {
	Path string
}

// NewFileSlot returns the slot <dir>/<name>.yaml, creating dir if needed.
func NewFileSlot(dir, name string) (*FileSlot, error) {
	if name == "" {
		name = DefaultSlotName
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &FileSlot{Path: filepath.Join(dir, name+".yaml")}, nil
}

// Load reads and normalizes the stored tasks. A missing file is an empty
// list. An undecodable file is moved aside to a timestamped
// <file>.corrupt-* backup and reported as a *CorruptionError.
func (f *FileSlot) Load() ([]*task.Task, error) {
	data, err := os.ReadFile(f.Path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.Path, err)
	}

	tasks, err := Decode(data)
	if err != nil {
		backup := f.backupPath()
		if rerr := os.Rename(f.Path, backup); rerr != nil {
			backup = ""
		}
		return nil, &CorruptionError{Path: f.Path, Backup: backup, Err: err}
	}
	return tasks, nil
}

// backupPath returns a timestamped name for moving an unreadable file
// aside that never collides with an earlier backup.
func (f *FileSlot) backupPath() string {
	base := f.Path + ".corrupt-" + time.Now().UTC().Format("20060102T150405")
	path := base
	for i := 1; ; i++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path
		}
		path = fmt.Sprintf("%s-%d", base, i)
	}
}

// Save writes all tasks in order, replacing the previous contents. The
// file is written under a temporary name and renamed into place, so
// readers never see a partial list.
func (f *FileSlot) Save(tasks []*task.Task) error {
	data, err := Encode(tasks)
	if err != nil {
		return err
	}
	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.Path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", f.Path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", f.Path, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", f.Path, err)
	}
	if err := os.Rename(tmp.Name(), f.Path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replacing %s: %w", f.Path, err)
	}
	return nil
}

// Encode serializes tasks as a YAML sequence.
func Encode(tasks []*task.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []*task.Task{}
	}
	data, err := yaml.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("serializing tasks: %w", err)
	}
	return data, nil
}

// Decode parses a serialized task list. Both the YAML written by Encode and
// the JSON array older browser versions kept in localStorage are accepted.
// Records are normalized on the way in.
func Decode(data []byte) ([]*task.Task, error) {
	var raw []rawTask
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing task list: %w", err)
	}
	return normalize(raw), nil
}
