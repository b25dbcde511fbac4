package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// forwardedHeaders are consulted in order when the planner sits behind a
// load balancer. Only the client-most hop of each header is used.
var forwardedHeaders = []string{"X-Forwarded-For", "X-Real-IP"}

// getClientIP keys rate limiting. Header values that are not IP addresses
// are ignored so spoofed strings cannot mint fresh limiters.
func getClientIP(c *gin.Context) string {
	for _, name := range forwardedHeaders {
		first, _, _ := strings.Cut(c.GetHeader(name), ",")
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip.String()
		}
	}

	addr := c.Request.RemoteAddr
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
