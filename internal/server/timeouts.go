package server

import "time"

// Limits for the league API listener.
const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 10 * time.Second
	writeTimeout      = 15 * time.Second
	idleTimeout       = 60 * time.Second
)

// shutdownTimeout bounds HTTP draining plus store and publisher release; tests shorten it.
var shutdownTimeout = 10 * time.Second
