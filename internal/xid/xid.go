package xid

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

var seq atomic.Uint64

// New returns prefix_<unix nanos><sequence>_<random hex>.
func New(prefix string) string {
	n := seq.Add(1)
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%s_%d%04d_%s", prefix, time.Now().UnixNano(), n%10000, suffix)
}
