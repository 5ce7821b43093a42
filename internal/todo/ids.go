package todo

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// IDGenerator issues ids for new tasks. taken reports ids already in use.
type IDGenerator interface {
    NextID(now time.Time, taken func(string) bool) string
}

// TimestampIDs issues decimal Unix-millisecond ids. An id is bumped forward
// until it is greater than the last one issued and not taken, so two adds in
// the same millisecond still get distinct, increasing ids.
type TimestampIDs struct {
    last int64
}

func (g *TimestampIDs) NextID(now time.Time, taken func(string) bool) string {
    n := now.UnixMilli()
    if n <= g.last { n = g.last + 1 }
    for taken != nil && taken(strconv.FormatInt(n, 10)) { n++ }
    g.last = n
    return strconv.FormatInt(n, 10)
}

// UUIDs issues random v4 ids.
type UUIDs struct{}

func (UUIDs) NextID(_ time.Time, taken func(string) bool) string {
    for {
        id := uuid.NewString()
        if taken == nil || !taken(id) { return id }
    }
}

// NewIDGenerator maps a config id scheme to a generator; unknown schemes
// fall back to timestamps.
func NewIDGenerator(scheme string) IDGenerator {
    if scheme == "uuid" { return UUIDs{} }
    return &TimestampIDs{}
}
