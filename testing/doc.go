// Package testing provides test utilities for the Roster library.
//
// This package offers helpers for setting up test environments, particularly
// embedded NATS servers for adapter and integration testing. It follows Go's
// convention of providing testing utilities in a dedicated package (similar
// to net/http/httptest).
//
// Key utilities:
//   - StartEmbeddedNATS: In-process NATS server for reporter/ingest tests
//   - NewTestLogger: types.Logger that writes through testing.T
//
// Example usage:
//
//	import (
//	    "testing"
//	    rostertest "github.com/arloliu/roster/testing"
//	)
//
//	func TestMyComponent(t *testing.T) {
//	    _, nc := rostertest.StartEmbeddedNATS(t)
//	    // Use nc for your tests
//	}
package testing
