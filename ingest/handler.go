package ingest

import (
	"context"

	"github.com/arloliu/roster/types"
)

// Handler defines the contract for processing decoded status reports.
//
// Behavior summary:
//   - The subscriber decodes and screens each report, then calls HandleReport
//     once per surviving report with the reporting client's identity and its
//     per-thread states.
//   - A non-nil error is logged by the subscriber and the report is dropped;
//     there is no redelivery. Reports are idempotent snapshots, so the next
//     one from the same client supersedes anything lost.
//
// Concurrency:
//   - NATS delivers messages for one subscription sequentially, so
//     HandleReport is never called concurrently by the same subscriber. A
//     handler that blocks delays every later report on the subject.
//
// Example:
//
//	var h Handler[BatchProgress] = HandlerFunc[BatchProgress](
//	    func(ctx context.Context, identity string, states map[int]BatchProgress) error {
//	        _, err := reg.Report(identity, states)
//	        return err
//	    })
type Handler[S types.ThreadState[S]] interface {
	// HandleReport processes a single decoded report.
	HandleReport(ctx context.Context, identity string, states map[int]S) error
}

// HandlerFunc is a function adapter for Handler.
type HandlerFunc[S types.ThreadState[S]] func(ctx context.Context, identity string, states map[int]S) error

// HandleReport implements the Handler interface.
func (f HandlerFunc[S]) HandleReport(ctx context.Context, identity string, states map[int]S) error {
	return f(ctx, identity, states)
}
