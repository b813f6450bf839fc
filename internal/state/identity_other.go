//go:build !unix

package state

import (
	"os"

	"github.com/vburojevic/watch404/internal/domain"
)

// Identity reports no usable file identity on platforms without a
// device/inode pair. Checkpoints still carry the zero identity, so
// resume works; only rename-based rotation goes undetected.
func Identity(fi os.FileInfo) (domain.FileIdentity, bool) {
	_ = fi

	return domain.FileIdentity{}, false
}
