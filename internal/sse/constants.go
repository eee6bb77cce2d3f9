package sse

import "time"

// Buffer sizes
const (
	// BroadcastBufferSize is the buffer size for the broadcast channel
	BroadcastBufferSize = 256

	// ClientEventBuffer is the buffer size for each client's event channel
	ClientEventBuffer = 64

	// ClientChannelBuffer is the buffer size for register/unregister channels
	ClientChannelBuffer = 16
)

// KeepaliveInterval is how often to send keepalive pings
const KeepaliveInterval = 30 * time.Second

// Stream-level event types. Ledger events keep their own type names.
const (
	EventTypeConnected = "connected"
	EventTypeKeepalive = "keepalive"
)

// QueryParamTypes selects event types, comma separated
const QueryParamTypes = "types"

// Log messages
const (
	LogMsgClientConnected    = "SSE client connected"
	LogMsgClientDisconnected = "SSE client disconnected"
	LogMsgEventDropped       = "SSE broadcast buffer full, event dropped"
	LogMsgClientLagging      = "SSE client buffer full, event skipped"
	LogMsgWriteError         = "Failed to write SSE event"
	LogMsgStreamUnsupported  = "Response writer does not support streaming"
	LogMsgSubscriberReady    = "SSE feed subscribed to ledger events"
)
