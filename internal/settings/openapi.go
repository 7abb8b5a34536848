package settings

import "github.com/JaimeStill/shoreline/pkg/openapi"

var settingsSpec = struct {
	Find  *openapi.Operation
	SetAI *openapi.Operation
}{
	Find: &openapi.Operation{
		Summary: "Get service settings",
		Tags:    []string{"Settings"},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Current settings", "Settings"),
			401: openapi.ResponseRef("Unauthorized"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	SetAI: &openapi.Operation{
		Summary:     "Switch AI suggestions on or off",
		Description: "Takes effect on the next suggestion attempt.",
		Tags:        []string{"Settings"},
		RequestBody: openapi.RequestBodyJSON("AIRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Updated settings", "Settings"),
			400: openapi.ResponseRef("BadRequest"),
			401: openapi.ResponseRef("Unauthorized"),
		},
	},
}

// Schemas returns the component schemas referenced by the settings routes.
func Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"Settings": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"ai_enabled": {Type: "boolean"},
				"updated_at": {Type: "string", Format: "date-time"},
				"updated_by": {Type: "string"},
			},
		},
		"AIRequest": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"enabled":    {Type: "boolean"},
				"updated_by": {Type: "string", Description: "Ignored when the request is authenticated"},
			},
			Required: []string{"enabled"},
		},
	}
}
