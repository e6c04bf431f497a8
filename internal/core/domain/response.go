package domain

import (
	"maps"
	"net/http"
	"slices"
	"time"
)

// StoredResponse is a fully buffered HTTP response, either live from the network
// or read back from a cache partition.
type StoredResponse struct {
	Status   int         `json:"status"`
	Header   http.Header `json:"header,omitempty"`
	Body     []byte      `json:"body,omitempty"`
	StoredAt time.Time   `json:"stored_at,omitzero"`
}

// OK reports whether the status is in the 2xx range.
func (r *StoredResponse) OK() bool {
	return r != nil && r.Status >= 200 && r.Status < 300
}

// Clone returns a deep copy so the caller and the cache never share a body.
func (r *StoredResponse) Clone() *StoredResponse {
	if r == nil {
		return nil
	}
	c := &StoredResponse{
		Status:   r.Status,
		Body:     slices.Clone(r.Body),
		StoredAt: r.StoredAt,
	}
	if r.Header != nil {
		c.Header = make(http.Header, len(r.Header))
		for k, v := range maps.All(r.Header) {
			c.Header[k] = slices.Clone(v)
		}
	}
	return c
}
