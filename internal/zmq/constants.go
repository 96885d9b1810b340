package zmq

import (
	"fmt"
	"strings"
)

// DefaultIOThreads is the io thread count used by the process-wide context.
const DefaultIOThreads = 1

// SocketType is the libzmq socket type code.
type SocketType int

const (
	Pair   SocketType = 0
	Pub    SocketType = 1
	Sub    SocketType = 2
	Req    SocketType = 3
	Rep    SocketType = 4
	Dealer SocketType = 5
	Router SocketType = 6
	Pull   SocketType = 7
	Push   SocketType = 8
	XPub   SocketType = 9
	XSub   SocketType = 10
)

var socketTypeNames = map[SocketType]string{
	Pair:   "PAIR",
	Pub:    "PUB",
	Sub:    "SUB",
	Req:    "REQ",
	Rep:    "REP",
	Dealer: "DEALER",
	Router: "ROUTER",
	Pull:   "PULL",
	Push:   "PUSH",
	XPub:   "XPUB",
	XSub:   "XSUB",
}

func (t SocketType) String() string {
	if name, ok := socketTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("SocketType(%d)", int(t))
}

// ParseSocketType resolves a case-insensitive socket type name.
func ParseSocketType(raw string) (SocketType, error) {
	name := strings.ToUpper(strings.TrimSpace(raw))
	for t, n := range socketTypeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedSocketType, raw)
}

// Option is the libzmq socket option code.
type Option int

const (
	OptAffinity     Option = 4
	OptIdentity     Option = 5
	OptSubscribe    Option = 6
	OptUnsubscribe  Option = 7
	OptSndBuf       Option = 11
	OptRcvBuf       Option = 12
	OptRcvMore      Option = 13
	OptType         Option = 16
	OptLinger       Option = 17
	OptReconnectIvl Option = 18
	OptBacklog      Option = 19
	OptSndHWM       Option = 23
	OptRcvHWM       Option = 24
	OptRcvTimeo     Option = 27
	OptSndTimeo     Option = 28
)

// Flag modifies send/recv calls.
type Flag int

const (
	DontWait Flag = 1
	SndMore  Flag = 2
)
