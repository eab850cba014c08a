// Package reload hot-applies role ratio changes from a YAML config file.
//
// A Watcher observes the configuration file and pushes updated roleRatios
// into a RatioSetter (normally the registry) whenever the file changes. Only
// the ratios are applied: limits, thread counts, and liveness windows are
// fixed at registry construction, matching SetRoleRatios being the one
// runtime-mutable knob the registry exposes.
//
// File events are debounced, so editors that write in several steps trigger
// a single reload. A malformed or half-written file fails the reload with a
// warning and the previous ratios stay in effect; the watcher keeps running
// and picks up the next change.
//
// Example usage:
//
//	w, err := reload.New("roster.yaml", reg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := w.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Stop()
package reload
