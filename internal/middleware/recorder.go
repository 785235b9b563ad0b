package middleware

import (
	"bytes"
	"net/http"
)

// statusRecorder remembers the status written by the wrapped handler. When
// keepErrors is set it also buffers error response bodies for logging.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
	keepErrors  bool
	errorBody   bytes.Buffer
}

func newStatusRecorder(w http.ResponseWriter, keepErrors bool) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK, keepErrors: keepErrors}
}

func (rw *statusRecorder) WriteHeader(statusCode int) {
	if rw.wroteHeader {
		return
	}
	rw.status = statusCode
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	if rw.keepErrors && rw.status >= http.StatusBadRequest {
		rw.errorBody.Write(b)
	}
	return rw.ResponseWriter.Write(b)
}

func (rw *statusRecorder) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
