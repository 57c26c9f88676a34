package http

import (
	"strings"
	"time"
)

type Response struct {
	StatusCode int
	Status     string
	Headers    map[string]string
	Body       []byte
	Duration   time.Duration
}

func (r *Response) BodyString() string {
	return string(r.Body)
}

func (r *Response) Header(key string) string {
	for k, v := range r.Headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

func (r *Response) ContentType() string {
	return r.Header("Content-Type")
}

// IsJSON reports whether the server declared a JSON body.
func (r *Response) IsJSON() bool {
	ct := strings.ToLower(r.ContentType())
	return strings.Contains(ct, "application/json") || strings.Contains(ct, "+json")
}

// HasBody reports whether the response carries any bytes.
func (r *Response) HasBody() bool {
	return len(strings.TrimSpace(string(r.Body))) > 0
}

func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (r *Response) IsRedirect() bool {
	return r.StatusCode >= 300 && r.StatusCode < 400
}
