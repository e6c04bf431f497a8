package router

import (
	"net/http"
	"time"

	"go.trai.ch/offsync/internal/core/domain"
)

// OfflineJSON is the body answered to API requests with no network and no cached copy.
const OfflineJSON = `{"error":"Offline","message":"No network connection"}`

// OfflineHTML is served to navigations when the offline page itself is not cached.
const OfflineHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Offline</title>
</head>
<body>
<h1>You are offline</h1>
<p>Check your connection and try again.</p>
</body>
</html>
`

// OfflineAPIResponse returns a fresh synthesized 503 for API requests.
func OfflineAPIResponse(now time.Time) *domain.StoredResponse {
	return &domain.StoredResponse{
		Status: http.StatusServiceUnavailable,
		Header: http.Header{
			"Content-Type":  {"application/json"},
			"Cache-Control": {"no-store"},
		},
		Body:     []byte(OfflineJSON),
		StoredAt: now,
	}
}

// OfflinePageResponse returns a fresh synthesized offline document.
func OfflinePageResponse(now time.Time) *domain.StoredResponse {
	return &domain.StoredResponse{
		Status: http.StatusServiceUnavailable,
		Header: http.Header{
			"Content-Type":  {"text/html; charset=utf-8"},
			"Cache-Control": {"no-store"},
		},
		Body:     []byte(OfflineHTML),
		StoredAt: now,
	}
}
