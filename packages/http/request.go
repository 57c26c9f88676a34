package http

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"
)

type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
	Timeout time.Duration
}

func NewRequest(method, requestURL string) *Request {
	return &Request{
		Method:  method,
		URL:     requestURL,
		Headers: make(map[string]string),
	}
}

// NewJSONRequest encodes body as JSON. A nil body produces a request without one.
func NewJSONRequest(method, requestURL string, body any) (*Request, error) {
	r := NewRequest(method, requestURL)
	if body == nil {
		return r, nil
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding request body: %w", err)
	}
	r.Body = data
	r.SetHeader("Content-Type", "application/json")

	return r, nil
}

func (r *Request) SetHeader(key, value string) *Request {
	r.Headers[key] = value
	return r
}

func (r *Request) SetTimeout(d time.Duration) *Request {
	r.Timeout = d
	return r
}

func (r *Request) BodyString() string {
	return string(r.Body)
}

// JoinURL resolves target against base. Absolute targets are returned as is;
// relative ones are appended to the base path, keeping any query string.
// Escapes already present in target are sent unchanged.
func JoinURL(base, target string) (string, error) {
	if target == "" {
		return "", fmt.Errorf("empty URL")
	}

	t, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", target, err)
	}
	if t.IsAbs() {
		return target, nil
	}

	if base == "" {
		return "", fmt.Errorf("relative URL %q needs a base URL", target)
	}

	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}

	rawPath := strings.TrimRight(b.EscapedPath(), "/") + "/" + strings.TrimLeft(t.EscapedPath(), "/")
	path, err := url.PathUnescape(rawPath)
	if err != nil {
		return "", fmt.Errorf("invalid URL path %q: %w", rawPath, err)
	}
	b.Path = path
	b.RawPath = rawPath
	b.RawQuery = t.RawQuery

	return b.String(), nil
}
