package client

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rezonia/evatr-go/internal/model"
)

// StatusError is the lower-level failure for a non-2xx response.
// It is kept as the cause of the classified *model.Error.
// BodyErr is set when the body could not be read completely; Body then holds what was read.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
	BodyErr    error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *StatusError) Unwrap() error {
	return e.BodyErr
}

// errorBody is the payload of a failed call
type errorBody struct {
	Status  *string `json:"status"`
	Message *string `json:"meldung"`
}

// classify turns a non-2xx response into a typed error
func classify(se *StatusError) *model.Error {
	var status *model.StatusCode
	message := se.Error()

	var payload errorBody
	if err := json.Unmarshal(se.Body, &payload); err == nil && payload.Status != nil {
		if code, ok := model.ParseStatusCode(*payload.Status); ok {
			status = &code
		}
		if payload.Message != nil {
			message = *payload.Message
		}
	}

	return model.NewError(model.KindForHTTPCode(se.StatusCode), message, status, se.StatusCode, se)
}
