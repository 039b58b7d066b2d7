package common

import "time"

const (
	// MaxRequestBody limits JSON request bodies for quiz/admin endpoints.
	MaxRequestBody = 1 << 20
	// RequestTimeout bounds store access per request.
	RequestTimeout = 5 * time.Second
	// ReportTimeout bounds report rendering plus mail delivery.
	ReportTimeout = 30 * time.Second
)
