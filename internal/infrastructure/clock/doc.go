// Package clock provides a testable abstraction over wall time and
// one-shot callbacks.
//
// Production code uses Real, which delegates to the time package. Tests use
// Mock, whose time only moves when Advance is called; due callbacks run
// synchronously on the calling goroutine in deadline order, which makes
// timer-driven state machines deterministic under test.
//
// Usage:
//
//	clk := clock.NewMock(time.Unix(0, 0))
//	clk.AfterFunc(2*time.Second, func() { fmt.Println("fired") })
//	clk.Advance(2 * time.Second) // prints "fired"
package clock
