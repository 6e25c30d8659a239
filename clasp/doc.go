// Package clasp implements a class-lifecycle runtime with C++-style access
// control and deterministic, scope-driven destruction. Classes declare
// ordered member and method sequences partitioned by `public`, `private`,
// and `protected` directives; every member and method access passes an
// access gate judged against the caller's receiver. Tracked instances are
// owned by exactly one scope frame or member slot at a time: frames tear
// their handles down in reverse acquisition order when the owning call
// returns, returned handles rebind to the caller's frame, and overwriting
// a slot destroys what it held.
//
// Classes come from three declaration sources that share one runtime: the
// script language (`class Name ... end` with `name: type` members and
// `def`/`def ~Name` methods), YAML class manifests for data classes, and
// the Go ClassBuilder for host-implemented classes.
//
// Comments beginning with `#` are ignored. The interpreter enforces a
// simple step quota, rejecting scripts that exceed configured execution
// limits.
package clasp
