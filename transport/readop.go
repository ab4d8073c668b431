// File: transport/readop.go
// Author: momentics <momentics@gmail.com>
//
// readOp is a pooled per-read operation record: the transient bookkeeping
// for one socket read iteration (the buffer in flight, bytes transferred,
// and any error), reused across iterations via a BoundedObjectPool instead
// of being implicit stack state. Grounded on the teacher's per-thread
// operation-record convention for async socket I/O, generalized here to a
// blocking read loop where the "operation" is one loop iteration rather
// than a completion callback.

package transport

import "github.com/nimbusnet/gameclient/api"

type readOp struct {
	buf api.Buffer
	n   int
	err error
}

// Reset clears the record for reuse from a pool.BoundedObjectPool[*readOp].
func (r *readOp) Reset() {
	r.buf = nil
	r.n = 0
	r.err = nil
}
