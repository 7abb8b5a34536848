package routes

import (
	"net/http"

	"github.com/JaimeStill/shoreline/pkg/openapi"
)

// Route binds an HTTP method and pattern to a handler. OpenAPI is optional;
// undocumented routes are still registered but left out of the spec.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	OpenAPI *openapi.Operation
}
