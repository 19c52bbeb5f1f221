package common

import "time"

const (
	// MultipartMemory is how much of a multipart body is kept in memory before spilling to temp files.
	MultipartMemory = 1 << 20
	// MultipartOverhead is added to the body limit for boundaries and text fields.
	MultipartOverhead = 1 << 20
	// RequestTimeout bounds storage round trips made by a single handler.
	RequestTimeout = 10 * time.Second

	MessageInternalError = "Internal Server Error"
)
