// Package fault provides a tagged error taxonomy for model backend failures.
//
// Every failure surfaced by a model backend is classified into a Kind. The
// resilience layer uses kinds to answer two questions without inspecting
// concrete error types: does this failure count toward a circuit breaker, and
// is it worth retrying. Classification is explicit rather than type-assertion
// based: wrap errors with fault.Wrap at the boundary where the failure mode is
// known, and use fault.KindOf everywhere else.
//
// Errors that were never wrapped are classified on a best-effort basis from
// the standard library error types (net.Error, context errors, syscall
// errors). Anything unrecognized is KindUnknown, which no default kind set
// includes.
package fault
