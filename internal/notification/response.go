package notification

import (
	"encoding/json"
	"net/http"
)

// AcceptedMessage is the acknowledgment body the provider's retry protocol
// expects; anything else makes it redeliver the whole batch.
const AcceptedMessage = "[accepted]"

// Response is the acknowledgment sent back to the provider. Only three
// shapes exist: accepted, bad request, unauthorized. Per-item processing
// outcomes never change the batch-level response.
type Response struct {
	StatusCode int
	Message    string
}

func Accepted() Response {
	return Response{StatusCode: http.StatusOK, Message: AcceptedMessage}
}

func BadRequest(message string) Response {
	return Response{StatusCode: http.StatusBadRequest, Message: message}
}

func Unauthorized(message string) Response {
	return Response{StatusCode: http.StatusUnauthorized, Message: message}
}

func (r Response) Write(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(r.StatusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": r.Message})
}
