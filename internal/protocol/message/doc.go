// Package message owns the multipart frame sequence.
//
// Ownership boundary:
// - ordered frame container with collection operations
// - multipart send/receive over a frame socket
package message
