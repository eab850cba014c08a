// Package reporter provides the client-side publisher of status reports.
//
// A Publisher runs inside each worker process. Worker threads record their
// latest progress with SetThreadState; the publisher snapshots every recorded
// state on a fixed interval and publishes them as one JSON StatusReport to a
// NATS subject, where the coordinator's ingest subscriber feeds them into the
// registry.
//
// Delivery is fire-and-forget over core NATS. Lost reports are never retried:
// the next tick publishes fresh state anyway, and the coordinator tolerates
// gaps up to its configured liveness window.
//
// Example usage:
//
//	pub, err := reporter.New[BatchProgress](nc,
//	    reporter.WithIdentity("worker-7"),
//	    reporter.WithInterval(2*time.Second))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := pub.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer pub.Stop()
//
//	// From a worker thread, whenever progress advances:
//	pub.SetThreadState(0, BatchProgress{Batch: n})
package reporter
