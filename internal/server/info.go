package server

import (
	"fmt"
	"time"
)

// version is the server's reported build version. Unversioned builds
// report "dev".
const version = "dev"

var startTime = time.Now()

// infoBody renders the info reply body: a non-empty set of
// "field:value" lines. Content beyond non-nullness is unobserved by
// the wire contract, so this is deliberately terse.
func infoBody() string {
	return fmt.Sprintf(
		"server:rhino-rox\r\nversion:%s\r\nuptime_seconds:%d\r\n",
		version, int(time.Since(startTime).Seconds()),
	)
}
