package form

import "net/http"

// Meta carries the request-derived fields attached to every forwarded
// payload. Absent headers become "", never omitted keys.
type Meta struct {
	UserAgent string
	Referrer  string
}

func MetaFromHeader(h http.Header) Meta {
	return Meta{
		UserAgent: h.Get("User-Agent"),
		Referrer:  h.Get("Referer"),
	}
}

// Page resolves the page field for a forwarded payload: an explicit submitted
// value wins, then the request referrer, then "".
func (s Submission) Page(m Meta) string {
	if v := s.String("page"); v != "" {
		return v
	}
	return m.Referrer
}

// Apply attaches the meta fields and resolved page to a shaped payload.
func (m Meta) Apply(payload map[string]string, s Submission) {
	payload["userAgent"] = m.UserAgent
	payload["referrer"] = m.Referrer
	payload["page"] = s.Page(m)
}
