// Package protocol groups the wire-level data types carried by sockets.
//
// Ownership boundary:
// - frame: one addressable big-endian byte buffer per transmission unit
// - message: ordered multipart container of frames and its send/receive loop
package protocol
