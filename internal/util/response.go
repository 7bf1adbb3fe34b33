package util

// Response is the envelope every endpoint answers with. Success and failure
// share the shape; richer success payloads embed it.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func OK(message string) Response {
	return Response{Success: true, Message: message}
}

func Fail(message string) Response {
	return Response{Success: false, Message: message}
}
