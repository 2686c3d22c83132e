package smart_breeder

// ErrorKind names the failure class carried in every structured error payload.
type ErrorKind string

const (
	KindConfiguration  ErrorKind = "Configuration Error"
	KindGatewayTimeout ErrorKind = "Gateway Timeout"
	KindUnavailable    ErrorKind = "Service Unavailable"
	KindInternal       ErrorKind = "Internal Server Error"
	KindValidation     ErrorKind = "Validation Error"
)

// ErrorResponse is the JSON body returned by the relay (and the dashboard API)
// whenever a request cannot be completed.
type ErrorResponse struct {
	Success        bool      `json:"success"`
	Error          ErrorKind `json:"error"`
	Message        string    `json:"message"`
	PossibleCauses []string  `json:"possibleCauses,omitempty"`
	Solutions      []string  `json:"solutions,omitempty"`
	Details        string    `json:"details,omitempty"` // only outside production mode
}

// Result is what every Device Client operation resolves to. It never carries
// a Go error: failures are folded into Success=false plus a readable Message.
type Result struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message"`
}
