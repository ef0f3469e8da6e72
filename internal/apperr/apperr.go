package apperr

import (
	"errors"
	"net/http"
)

// Error taxonomy shared by the upload and verification path.
// Callers wrap these with fmt.Errorf("%w: ...") and match with errors.Is.
var (
	ErrValidation     = errors.New("validation failed")    // 400
	ErrAuthentication = errors.New("not authenticated")    // 401
	ErrNotFound       = errors.New("not found")            // 404
	ErrConflict       = errors.New("already exists")       // 409
	ErrStorage        = errors.New("storage failure")      // 502
	ErrPersistence    = errors.New("persistence failure")  // 502
	ErrFetch          = errors.New("fetch failure")        // 502
	ErrRender         = errors.New("qr rendering failure") // 502
)

// HTTPStatus maps an error to the status code the API responds with.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrAuthentication):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrStorage),
		errors.Is(err, ErrPersistence),
		errors.Is(err, ErrFetch),
		errors.Is(err, ErrRender):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message that is safe to show to API clients.
// Collaborator failures are reported generically; caller faults keep their detail.
func PublicMessage(err error) string {
	switch HTTPStatus(err) {
	case http.StatusBadRequest, http.StatusConflict:
		return err.Error()
	case http.StatusUnauthorized:
		return "Not authenticated"
	case http.StatusNotFound:
		return "Not found"
	case http.StatusBadGateway:
		return "Upstream service failed, please try again"
	default:
		return "Internal server error"
	}
}
