package symbol

import "sync/atomic"

// ID identifies an interned symbol.  The zero ID is never assigned to a
// symbol.
type ID uint64

// MaxID is the largest ID a Table will hand out.
const MaxID = 0x00000000FFFFFFFF

// IDGen generates unique IDs.
type IDGen interface {
	// NewID returns an ID that the IDGen has not returned before.
	NewID() ID
}

// NewIDGen returns an IDGen that generates increasing ids after min, up to
// MaxID.
func NewIDGen(min ID) IDGen {
	if min > MaxID {
		panic("invalid min ID")
	}
	return &gen{lastid: uint64(min)}
}

type gen struct {
	lastid uint64
}

var _ IDGen = (*gen)(nil)

func (g *gen) NewID() ID {
	id := atomic.AddUint64(&g.lastid, 1)
	if id > MaxID {
		panic("too many ids generated")
	}
	return ID(id)
}

// String returns the text of id in DefaultGlobalTable.
func (id ID) String() string {
	return String(id, DefaultGlobalTable)
}
