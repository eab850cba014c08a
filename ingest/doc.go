// Package ingest provides the coordinator-side subscriber for status reports.
//
// A Subscriber listens on a NATS subject for the JSON envelopes the reporter
// package publishes, decodes them, screens out payloads the registry must
// never see (malformed JSON, missing identities, out-of-range thread
// indices), and hands each surviving report to a caller-supplied Handler.
// The usual handler is a two-liner that calls Registry.Report.
//
// Screening matters because the registry treats a bad thread index as a
// programming fault and panics; input from the network never gets that
// courtesy. Dropped reports are logged and skipped, never retried.
//
// Example usage:
//
//	handler := ingest.HandlerFunc[BatchProgress](
//	    func(ctx context.Context, identity string, states map[int]BatchProgress) error {
//	        _, err := reg.Report(identity, states)
//	        return err
//	    })
//
//	sub, err := ingest.New(nc, handler,
//	    ingest.WithMaxThreads(reg.Config().MaxThreads))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := sub.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer sub.Stop()
package ingest
