package dedup

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/PranavPurwar/proguard-core/internal/errors"
)

// Increment when the Snapshot layout changes
const snapshotSchemaVersion uint16 = 1

// Snapshot is a Report persisted to disk
type Snapshot struct {
	Schema    uint16    `msgpack:"schema"`
	PassID    string    `msgpack:"pass_id"`
	CreatedAt time.Time `msgpack:"created_at"`
	Inputs    []string  `msgpack:"inputs"`
	Report    Report    `msgpack:"report"`
}

// NewSnapshot stamps a report with the current schema version and time
func NewSnapshot(passID string, inputs []string, report Report) *Snapshot {
	return &Snapshot{
		Schema:    snapshotSchemaVersion,
		PassID:    passID,
		CreatedAt: time.Now().UTC(),
		Inputs:    inputs,
		Report:    report,
	}
}

// SaveSnapshot writes the snapshot through a temporary file and renames it into place
func SaveSnapshot(path string, snapshot *Snapshot) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.WrapFileSystemError("create directory for", path, err)
	}
	f, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return errors.WrapFileSystemError("create", path, err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(snapshot); err != nil {
		_ = f.Close()
		return errors.WrapFileSystemError("encode", path, err)
	}
	if err = f.Close(); err != nil {
		return errors.WrapFileSystemError("write", path, err)
	}
	if err = os.Rename(f.Name(), path); err != nil {
		return errors.WrapFileSystemError("rename", path, err)
	}
	return nil
}

// LoadSnapshot reads a snapshot written by SaveSnapshot. Snapshots with another schema are rejected.
func LoadSnapshot(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapFileSystemError("open", path, err)
	}
	defer f.Close()

	var snapshot Snapshot
	if err := msgpack.NewDecoder(f).Decode(&snapshot); err != nil {
		return nil, errors.WrapParseError("snapshot "+path, err)
	}
	if snapshot.Schema != snapshotSchemaVersion {
		return nil, errors.NewSyntaxError(fmt.Sprintf("snapshot %s has schema %d, expected %d",
			path, snapshot.Schema, snapshotSchemaVersion))
	}
	return &snapshot, nil
}
