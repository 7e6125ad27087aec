package observe

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	WSCommands = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hamcp_ws_commands_total",
			Help: "Websocket commands by type and outcome.",
		},
		[]string{"type", "outcome"},
	)

	WSReconnects = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hamcp_ws_reconnects_total",
			Help: "Websocket connection drops that triggered reconnection.",
		},
	)

	RESTRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hamcp_rest_requests_total",
			Help: "REST requests to Home Assistant by method and status.",
		},
		[]string{"method", "status"},
	)

	ToolCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hamcp_tool_calls_total",
			Help: "MCP tool invocations by tool and outcome.",
		},
		[]string{"tool", "outcome"},
	)

	Confirmations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hamcp_confirmations_total",
			Help: "Confirmation decisions by outcome.",
		},
		[]string{"decision"},
	)
)

func init() {
	prometheus.MustRegister(WSCommands, WSReconnects, RESTRequests, ToolCalls, Confirmations)
}

// Handler exposes the default registry for the /metrics endpoint in HTTP
// transport mode.
func Handler() http.Handler {
	return promhttp.Handler()
}
