package provider

import "fmt"

// UpstreamError reports a failed vendor API call. Body keeps the raw vendor
// response for diagnosis; Fix carries an actionable hint when one is known.
type UpstreamError struct {
	Service    string
	StatusCode int
	Message    string
	Body       string
	Fix        string
}

func (e *UpstreamError) Error() string {
	s := fmt.Sprintf("%s: %s", e.Service, e.Message)
	if e.StatusCode != 0 {
		s = fmt.Sprintf("%s (status %d)", s, e.StatusCode)
	}
	if e.Fix != "" {
		s = fmt.Sprintf("%s; fix: %s", s, e.Fix)
	}
	return s
}

func upstreamErr(service, message string, statusCode int, body string) *UpstreamError {
	return &UpstreamError{
		Service:    service,
		StatusCode: statusCode,
		Message:    message,
		Body:       body,
	}
}
