package model

import "net/http"

// HTTPClient is an [*http.Client] like structure.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
	CloseIdleConnections()
}

var _ HTTPClient = &http.Client{}
