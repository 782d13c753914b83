package api

import "time"

// DefaultBaseURL is the media server address used when nothing else is configured.
const DefaultBaseURL = "http://localhost:9999"

// NewDefaultClient builds a client pointed at the default server URL.
func NewDefaultClient(apiKey string, timeout ...time.Duration) *Client {
	return NewClient(DefaultBaseURL, apiKey, timeout...)
}
