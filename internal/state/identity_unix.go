//go:build unix

package state

import (
	"os"
	"syscall"

	"github.com/vburojevic/watch404/internal/domain"
)

// Identity extracts the device and inode pair that names the file
// independently of its path. The second return is false when the
// platform stat does not carry them; the zero identity is still usable
// as a checkpoint key, it just cannot distinguish a rotated file from
// the original.
func Identity(fi os.FileInfo) (domain.FileIdentity, bool) {
	st, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return domain.FileIdentity{}, false
	}

	// Dev is int32 on darwin and some BSDs, uint64 on linux.
	return domain.FileIdentity{
		Device: uint64(st.Dev),
		Inode:  st.Ino,
	}, true
}
