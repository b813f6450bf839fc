package domain

// FileIdentity identifies a file independently of its name, so rename-based
// rotation schemes are detected even when the path stays the same.
type FileIdentity struct {
	Device uint64 `json:"device_id"`
	Inode  uint64 `json:"inode"`
}

// Checkpoint records how far into a specific file a previous run has read.
// Offset is a byte position; it is only meaningful while the file at the
// watched path still has the same identity.
type Checkpoint struct {
	Identity FileIdentity
	Offset   int64
}
