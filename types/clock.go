package types

import "time"

// Clock is an injectable time source.
//
// The registry reads the clock once per operation and threads the reading
// through liveness evaluation, so tests can drive Alive↔Dead transitions
// deterministically without sleeping. Defaults to time.Now.
type Clock func() time.Time
