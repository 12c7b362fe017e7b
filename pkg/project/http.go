package project

import (
	"net/http"
	"strings"
)

// Method is an HTTP method a spec can use.
type Method string

const (
	MethodGet     Method = http.MethodGet
	MethodPost    Method = http.MethodPost
	MethodPut     Method = http.MethodPut
	MethodPatch   Method = http.MethodPatch
	MethodDelete  Method = http.MethodDelete
	MethodHead    Method = http.MethodHead
	MethodOptions Method = http.MethodOptions
)

// Methods lists every recognized HTTP method.
var Methods = []Method{MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete, MethodHead, MethodOptions}

// EditableMethods lists the methods a spec may be edited to use.
var EditableMethods = []Method{MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete}

// ParseMethod normalizes s and reports whether it is an editable method.
func ParseMethod(s string) (Method, bool) {
	m := Method(strings.ToUpper(strings.TrimSpace(s)))
	for _, editable := range EditableMethods {
		if m == editable {
			return m, true
		}
	}
	return m, false
}

// CanMethodHaveBody reports whether a request with this method may carry a body.
func CanMethodHaveBody(m Method) bool {
	return m != MethodGet && m != MethodHead
}

var localBeginnings = []string{
	"http://localhost",
	"https://localhost",
	"http://127.0.0.1",
	"https://127.0.0.1",
}

// IsRequestingToLocalhost reports whether url targets the local machine.
func IsRequestingToLocalhost(url string) bool {
	for _, prefix := range localBeginnings {
		if strings.HasPrefix(url, prefix) {
			return true
		}
	}
	return false
}

// MethodExplanation returns a brief explanation of m, or "" for unknown methods.
func MethodExplanation(m Method) string {
	switch m {
	case MethodGet:
		return "GET requests are used to retrieve data from a specified resource. They should not change the state of the resource, making them safe and idempotent."
	case MethodPost:
		return "POST requests are used to submit data to be processed to a specified resource. They can change the state and are not idempotent."
	case MethodPut:
		return "PUT requests send data to a server to create or update a resource. Unlike POST, PUT is idempotent: multiple identical requests have the same effect as a single one."
	case MethodPatch:
		return "PATCH requests apply partial modifications to a resource. Successive identical requests may have different effects."
	case MethodDelete:
		return "DELETE requests delete the specified resource. They change its state and are idempotent."
	case MethodHead:
		return "HEAD requests are like GET without the response body, useful to check whether a resource exists before downloading it."
	case MethodOptions:
		return "OPTIONS requests describe the communication options for the target resource without implying a resource action."
	default:
		return ""
	}
}

// StatusText returns the text of an HTTP status code, or "" when unknown.
func StatusText(code int) string {
	return http.StatusText(code)
}
