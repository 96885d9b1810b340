// Package managed owns the process-wide socket context and every socket it
// hands out.
//
// Ownership boundary:
// - one engine per Context, created lazily for the process-wide Instance
// - registration and teardown of sockets created through a Context
// - shutdown on SIGINT/SIGTERM for the process-wide Instance
// - frame and message I/O helpers on managed sockets
//
// Socket I/O is not synchronized here. A socket must be used by one
// goroutine at a time, as the engine requires.
package managed
