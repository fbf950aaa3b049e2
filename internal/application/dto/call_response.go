package dto

import "encoding/json"

// CallResult is the uniform envelope returned for every dispatched
// invocation. Business failures ride inside it with Success false; exactly
// one of Result and Error is populated.
type CallResult struct {
	Success bool   `json:"success"`
	Result  any    `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SuccessResult wraps a handler payload in a successful envelope.
func SuccessResult(payload any) CallResult {
	return CallResult{Success: true, Result: payload}
}

// FailureResult wraps a failure message in an unsuccessful envelope.
func FailureResult(message string) CallResult {
	return CallResult{Success: false, Error: message}
}

// ToolDescriptor is the wire form of one catalog entry, as served by the
// catalog endpoint and the stream handshake.
type ToolDescriptor struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// IntrospectionResult is the payload served for the reserved
// catalog-listing operation.
type IntrospectionResult struct {
	Tools json.RawMessage `json:"tools"`
	Count int             `json:"count"`
}

// HealthStatus is the liveness-probe body.
type HealthStatus struct {
	Status     string `json:"status"`
	Version    string `json:"version"`
	ToolsCount int    `json:"tools_count"`
}

// NewHealthStatus builds the healthy liveness body.
func NewHealthStatus(version string, toolsCount int) HealthStatus {
	return HealthStatus{Status: "healthy", Version: version, ToolsCount: toolsCount}
}

// ServiceInfo is the unauthenticated root discovery body.
type ServiceInfo struct {
	Name           string            `json:"name"`
	Version        string            `json:"version"`
	Protocol       string            `json:"protocol"`
	Endpoints      map[string]string `json:"endpoints"`
	Authentication string            `json:"authentication"`
}

// NewServiceInfo builds the root discovery body. The authentication field
// warns operators when the gateway runs without configured credentials.
func NewServiceInfo(version string, authEnabled bool) ServiceInfo {
	auth := "X-API-Key header required"
	if !authEnabled {
		auth = "None (warning)"
	}
	return ServiceInfo{
		Name:     "Viterbit Tool Gateway",
		Version:  version,
		Protocol: "HTTP/SSE",
		Endpoints: map[string]string{
			"health": "/health",
			"tools":  "/tools",
			"call":   "/tools/call",
			"sse":    "/sse",
		},
		Authentication: auth,
	}
}

// ErrorDetail is the body of transport-level rejections: malformed
// requests, failed authentication, oversized payloads.
type ErrorDetail struct {
	Detail string `json:"detail"`
}
