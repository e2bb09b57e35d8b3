package httpbackend

//
// Creating HTTP requests
//

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/altroute/altroute/internal/model"
)

// joinURLPath appends |resourcePath| to |urlPath|.
func joinURLPath(urlPath, resourcePath string) string {
	if resourcePath == "" {
		if urlPath == "" {
			return "/"
		}
		return urlPath
	}
	if !strings.HasSuffix(urlPath, "/") {
		urlPath += "/"
	}
	resourcePath = strings.TrimPrefix(resourcePath, "/")
	return urlPath + resourcePath
}

// newRequest creates a new [*http.Request] for the given |req|.
func (b *Backend) newRequest(ctx context.Context, req *model.Request) (*http.Request, error) {
	URL, err := url.Parse(b.baseRoute)
	if err != nil {
		return nil, err
	}
	// the base route and the resource path are joined if they both have a path
	URL.Path = joinURLPath(URL.Path, req.URLPath)
	URL.RawQuery = ""
	if len(req.URLQuery) > 0 {
		URL.RawQuery = req.URLQuery.Encode()
	}
	var body io.Reader
	if len(req.RequestBody) > 0 {
		body = bytes.NewReader(req.RequestBody)
	}
	request, err := http.NewRequestWithContext(ctx, req.Method, URL.String(), body)
	if err != nil {
		return nil, err
	}
	for key, values := range req.Header {
		for _, value := range values {
			request.Header.Add(key, value)
		}
	}
	request.Host = b.host
	if req.Authorization != "" {
		request.Header.Set("Authorization", req.Authorization)
	}
	if req.ContentType != "" {
		request.Header.Set("Content-Type", req.ContentType)
	}
	if req.Accept != "" {
		request.Header.Set("Accept", req.Accept)
	}
	if b.userAgent != "" {
		request.Header.Set("User-Agent", b.userAgent)
	}
	return request, nil
}
