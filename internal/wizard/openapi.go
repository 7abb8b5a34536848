package wizard

import "github.com/JaimeStill/shoreline/pkg/openapi"

var (
	draftID  = openapi.PathParam("id", "Draft UUID")
	slotPath = openapi.EnumPathParam("slot", "Photo slot", "product", "back", "recycling", "manufacturer")
)

func draftOp(summary, description string, params ...*openapi.Parameter) *openapi.Operation {
	return &openapi.Operation{
		Summary:     summary,
		Description: description,
		Tags:        []string{"Drafts"},
		Parameters:  params,
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Updated draft", "Draft"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
			409: openapi.ResponseRef("Conflict"),
		},
	}
}

var draftSpec = struct {
	Create     *openapi.Operation
	Find       *openapi.Operation
	Location   *openapi.Operation
	SetImage   *openapi.Operation
	ClearImage *openapi.Operation
	Preview    *openapi.Operation
	EditFields *openapi.Operation
	Next       *openapi.Operation
	Back       *openapi.Operation
	Suggest    *openapi.Operation
	Submit     *openapi.Operation
}{
	Create: &openapi.Operation{
		Summary:     "Start a contribution draft",
		Tags:        []string{"Drafts"},
		RequestBody: openapi.RequestBodyJSON("CreateDraft", false),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Draft created at the location step", "Draft"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Find: draftOp("Get a draft", "", draftID),
	Location: func() *openapi.Operation {
		op := draftOp(
			"Record the draft location",
			"Accepts device samples, reduced to the most accurate reading when best is set, or a manual location.",
			draftID,
		)
		op.RequestBody = openapi.RequestBodyJSON("LocationRequest", true)
		op.Responses[422] = &openapi.Response{Description: "Location permission denied"}
		op.Responses[503] = &openapi.Response{Description: "No device sample produced a location"}
		op.Responses[504] = &openapi.Response{Description: "Location request timed out"}
		return op
	}(),
	SetImage: func() *openapi.Operation {
		op := draftOp("Attach a photo", "Multipart upload with the photo in the file field.", draftID, slotPath)
		op.RequestBody = &openapi.RequestBody{
			Required: true,
			Content: map[string]*openapi.MediaType{
				"multipart/form-data": {
					Schema: &openapi.Schema{
						Type:       "object",
						Properties: map[string]*openapi.Schema{"file": {Type: "string", Format: "binary"}},
						Required:   []string{"file"},
					},
				},
			},
		}
		op.Responses[413] = &openapi.Response{Description: "Photo exceeds the upload limit"}
		return op
	}(),
	ClearImage: draftOp("Remove a photo", "", draftID, slotPath),
	Preview: &openapi.Operation{
		Summary:    "Get a photo preview",
		Tags:       []string{"Drafts"},
		Parameters: []*openapi.Parameter{draftID, slotPath},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Data URI of the photo, empty when the slot is unset", "Preview"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	EditFields: func() *openapi.Operation {
		op := draftOp("Edit detail fields", "Only fields present in the body change.", draftID)
		op.RequestBody = openapi.RequestBodyJSON("FieldsPatch", true)
		return op
	}(),
	Next: draftOp(
		"Advance to the next step",
		"Entering details with a product photo and no brand starts a background suggestion.",
		draftID,
	),
	Back: draftOp("Return to the previous step", "", draftID),
	Suggest: &openapi.Operation{
		Summary:     "Request a metadata suggestion",
		Description: "Runs synchronously. When suggestions are switched off the body reports disabled.",
		Tags:        []string{"Drafts"},
		Parameters:  []*openapi.Parameter{draftID},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Suggestion merged into blank fields", "SuggestResponse"),
			404: openapi.ResponseRef("NotFound"),
			409: openapi.ResponseRef("Conflict"),
			504: {Description: "Suggestion timed out"},
		},
	},
	Submit: &openapi.Operation{
		Summary:     "Submit the draft",
		Description: "Allowed only at the details step.",
		Tags:        []string{"Drafts"},
		Parameters:  []*openapi.Parameter{draftID, openapi.QueryParam("mode", "string", "full (default) or skip", false)},
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Contribution recorded", "SubmitResponse"),
			404: openapi.ResponseRef("NotFound"),
			409: openapi.ResponseRef("Conflict"),
			422: openapi.ResponseRef("UnprocessableEntity"),
			502: {Description: "Photo upload or persistence failed"},
		},
	},
}

// Schemas returns the component schemas referenced by the draft routes.
func Schemas() map[string]*openapi.Schema {
	str := &openapi.Schema{Type: "string"}
	fields := map[string]*openapi.Schema{
		"brand":        str,
		"manufacturer": str,
		"plastic_type": str,
		"beach_name":   str,
		"notes":        str,
	}
	location := &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"latitude":  {Type: "number"},
			"longitude": {Type: "number"},
			"accuracy":  {Type: "number", Description: "Meters"},
		},
		Required: []string{"latitude", "longitude"},
	}

	return map[string]*openapi.Schema{
		"CreateDraft": {
			Type:       "object",
			Properties: map[string]*openapi.Schema{"contributor_id": str},
		},
		"Draft": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":                 {Type: "string", Format: "uuid"},
				"revision":           {Type: "integer"},
				"step":               {Type: "string", Enum: []any{"location", "photos", "details", "submitted"}},
				"location":           location,
				"images":             {Type: "object", Description: "Photo metadata keyed by slot"},
				"fields":             {Type: "object", Properties: fields},
				"suggestion_pending": {Type: "boolean"},
				"contribution_id":    {Type: "string", Format: "uuid"},
			},
		},
		"LocationRequest": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"samples": {
					Type: "array",
					Items: &openapi.Schema{
						Type: "object",
						Properties: map[string]*openapi.Schema{
							"reading": location,
							"error":   {Type: "string", Enum: []any{"permission_denied", "unavailable", "timeout"}},
						},
					},
				},
				"best":   {Type: "boolean"},
				"manual": location,
			},
		},
		"FieldsPatch": {Type: "object", Properties: fields},
		"Preview": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"slot":    str,
				"preview": {Type: "string", Description: "data: URI"},
			},
		},
		"SuggestResponse": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"draft":      openapi.SchemaRef("Draft"),
				"suggestion": {Type: "object"},
				"disabled":   {Type: "boolean"},
			},
		},
		"SubmitResponse": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"draft_id":        {Type: "string", Format: "uuid"},
				"contribution_id": {Type: "string", Format: "uuid"},
			},
		},
	}
}
