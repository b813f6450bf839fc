// Package state persists scan checkpoints between runs.
//
// A checkpoint records the identity (device, inode) of the log file and
// the byte offset of the first unscanned line. Saves go through a
// temporary file in the same directory followed by a rename, so a crash
// mid-write can never leave a torn state file behind: the next run sees
// either the previous checkpoint or the new one, both of which are safe
// to resume from.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"

	"github.com/vburojevic/watch404/internal/domain"
)

const tmpSuffix = ".tmp"

// stateFile is the on-disk shape of a checkpoint.
type stateFile struct {
	DeviceID uint64 `json:"device_id"`
	Inode    uint64 `json:"inode"`
	Offset   int64  `json:"offset"`
}

// Load reads the checkpoint at path. A missing file returns (nil, nil):
// that is a normal cold start, not an error. A file that exists but
// cannot be read or does not contain all three checkpoint fields returns
// (nil, err) so the caller can log why the scan is starting over. Load
// never returns a checkpoint together with an error.
func Load(path string) (*domain.Checkpoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("read state file: %w", err)
	}

	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("state file %s is not valid JSON", path)
	}

	// json.Unmarshal would default a missing field to zero, which is
	// indistinguishable from a real offset-0 checkpoint. Require all
	// three fields to be present before trusting any of them.
	fields := gjson.GetManyBytes(data, "device_id", "inode", "offset")
	for i, name := range []string{"device_id", "inode", "offset"} {
		if !fields[i].Exists() {
			return nil, fmt.Errorf("state file %s is missing %q", path, name)
		}
	}

	offset := fields[2].Int()
	if offset < 0 {
		return nil, fmt.Errorf("state file %s has negative offset %d", path, offset)
	}

	return &domain.Checkpoint{
		Identity: domain.FileIdentity{
			Device: fields[0].Uint(),
			Inode:  fields[1].Uint(),
		},
		Offset: offset,
	}, nil
}

// Save writes the checkpoint to path atomically. The temporary file is
// created next to the target so the rename stays within one filesystem,
// and it is fsynced before the rename so the checkpoint survives a crash
// immediately after Save returns.
func Save(path string, cp domain.Checkpoint) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	data, err := json.Marshal(stateFile{
		DeviceID: cp.Identity.Device,
		Inode:    cp.Identity.Inode,
		Offset:   cp.Offset,
	})
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	data = append(data, '\n')

	tmpPath := path + tmpSuffix

	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create state tmp file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpPath)

		return fmt.Errorf("write state: %w", err)
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)

		return fmt.Errorf("sync state: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tmpPath)

		return fmt.Errorf("close state tmp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)

		return fmt.Errorf("rename state file: %w", err)
	}

	return nil
}

// Reset removes the checkpoint at path. Removing a checkpoint that does
// not exist is not an error.
func Reset(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove state file: %w", err)
	}

	return nil
}

// Reconcile decides the byte offset a scan should resume from. The saved
// offset is trusted only when the checkpoint describes the same file the
// scanner is about to read (same device and inode, so a rotated log is
// detected even when the new file reuses the old name) and the offset
// still lies within the file (a shrunken file means truncation or
// copytruncate rotation). Anything else starts the scan from the top.
func Reconcile(cp *domain.Checkpoint, id domain.FileIdentity, size int64) int64 {
	if cp == nil {
		return 0
	}
	if cp.Identity != id {
		return 0
	}
	if cp.Offset < 0 || cp.Offset > size {
		return 0
	}

	return cp.Offset
}
