// Package response defines the envelope every endpoint answers with, so
// clients parse a single shape for success and failure alike.
package response

// Response carries either Data or Error, never both. The status code is
// duplicated in the body for clients that cannot read transport headers.
type Response struct {
	Status     string      `json:"status"`      // "success" or "error"
	StatusCode int         `json:"status_code"` // HTTP status code
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// Success wraps data in a well-formed success envelope.
func Success(statusCode int, data interface{}) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
	}
}

// Error wraps a client-facing message. Internal detail never travels here;
// it stays in the server log.
func Error(statusCode int, err string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Error:      err,
	}
}
