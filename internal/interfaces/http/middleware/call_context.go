package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"

	"aeps-agent.backend/internal/domain/entities"
)

const (
	LatitudeHeader  = "X-Latitude"
	LongitudeHeader = "X-Longitude"
	DeviceIPHeader  = "X-Device-IP"
)

// CallContext assembles the partner call inputs for the authenticated request.
// ok is false when AuthMiddleware did not run.
func CallContext(c *gin.Context) (entities.CallContext, bool) {
	agentID, ok := GetAgentID(c)
	if !ok {
		return entities.CallContext{}, false
	}

	cc := entities.CallContext{
		AgentID:   agentID,
		Latitude:  strings.TrimSpace(c.GetHeader(LatitudeHeader)),
		Longitude: strings.TrimSpace(c.GetHeader(LongitudeHeader)),
		RequestID: c.GetString(RequestIDKey),
	}
	cc.BearerToken = c.GetString(AgentTokenKey)

	if ip := strings.TrimSpace(c.GetHeader(DeviceIPHeader)); net.ParseIP(ip) != nil {
		cc.DeviceIP = ip
	}
	return cc, true
}
