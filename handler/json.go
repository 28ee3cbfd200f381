package handler

import (
	"github.com/indigo-web/flint/http"
	"github.com/indigo-web/flint/http/mime"
	"github.com/indigo-web/flint/http/status"
	"github.com/indigo-web/utils/strcomp"
	json "github.com/json-iterator/go"
)

// JSON returns a handler serializing whatever fn returns into the response body. If fn
// fails, its error is converted into the response code (see status.CodeOf), so returning
// status.ErrNotFound results in 404 Not Found.
func JSON(fn func(request *http.Request) (any, error)) http.Handler {
	return func(request *http.Request, response *http.Response) int {
		model, err := fn(request)
		if err != nil {
			response.Code = status.CodeOf(err)
			return 0
		}

		response.Body.Reset()
		stream := json.ConfigDefault.BorrowStream(response)
		stream.WriteVal(model)
		err = stream.Flush()
		if stream.Error != nil {
			err = stream.Error
		}
		json.ConfigDefault.ReturnStream(stream)

		if err != nil {
			response.Error(status.InternalServerError)
			return 0
		}

		response.ContentType = mime.JSON
		return response.Body.Len()
	}
}

// DecodeJSON unmarshalls the request body into the model, which must be a pointer.
// Requests declaring a Content-Type other than JSON are refused.
func DecodeJSON(request *http.Request, model any) error {
	if contentType, found := request.Header("content-type"); found && !isJSON(contentType) {
		return status.ErrBadRequest
	}

	iterator := json.ConfigDefault.BorrowIterator(request.Body)
	iterator.ReadVal(model)
	err := iterator.Error
	json.ConfigDefault.ReturnIterator(iterator)

	if err != nil {
		return status.ErrBadRequest
	}

	return nil
}

func isJSON(contentType string) bool {
	return len(contentType) >= len(mime.JSON) && strcomp.EqualFold(contentType[:len(mime.JSON)], mime.JSON)
}
