// Package zmq owns the boundary with the external socket engine.
//
// Ownership boundary:
// - socket type, option, and flag numeric contract
// - engine and raw socket interfaces
// - engine-level sentinel errors
//
// Numeric codes match libzmq so configuration and peers agree on meaning.
package zmq
