// Package provider holds the clients for the external services the pipeline
// depends on: research, script writing, video rendering and social
// publishing. Each client wraps one vendor API and normalizes its errors.
package provider

import (
	"time"

	"github.com/go-resty/resty/v2"
)

func newClient(baseURL string, timeoutSeconds int) *resty.Client {
	return resty.New().
		SetBaseURL(baseURL).
		SetTimeout(time.Duration(timeoutSeconds) * time.Second).
		SetHeader("Content-Type", "application/json")
}
