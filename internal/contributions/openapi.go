package contributions

import "github.com/JaimeStill/shoreline/pkg/openapi"

var contributionSpec = struct {
	List     *openapi.Operation
	Find     *openapi.Operation
	Search   *openapi.Operation
	Classify *openapi.Operation
}{
	List: &openapi.Operation{
		Summary: "List contributions",
		Tags:    []string{"Contributions"},
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number", false),
			openapi.QueryParam("page_size", "integer", "Results per page", false),
			openapi.QueryParam("search", "string", "Matches brand, manufacturer or beach name", false),
			openapi.QueryParam("sort", "string", "Comma-separated fields, - prefix for descending", false),
			openapi.QueryParam("status", "string", "pending, classified or rejected", false),
			openapi.QueryParam("brand", "string", "Contains match", false),
			openapi.QueryParam("manufacturer", "string", "Contains match", false),
			openapi.QueryParam("plastic_type", "string", "Exact match", false),
			openapi.QueryParam("beach_name", "string", "Contains match", false),
			openapi.QueryParam("reviewed_by", "string", "Exact match", false),
			openapi.QueryParam("contributor_id", "string", "Exact match", false),
			openapi.QueryParam("created_after", "string", "RFC 3339 lower bound", false),
			openapi.QueryParam("created_before", "string", "RFC 3339 upper bound", false),
			openapi.QueryParam("min_latitude", "number", "Bounding box", false),
			openapi.QueryParam("max_latitude", "number", "Bounding box", false),
			openapi.QueryParam("min_longitude", "number", "Bounding box", false),
			openapi.QueryParam("max_longitude", "number", "Bounding box", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Paginated contributions", "ContributionPage"),
			400: openapi.ResponseRef("BadRequest"),
			401: openapi.ResponseRef("Unauthorized"),
		},
	},
	Find: &openapi.Operation{
		Summary:    "Get a contribution",
		Tags:       []string{"Contributions"},
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "Contribution UUID")},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Contribution", "Contribution"),
			400: openapi.ResponseRef("BadRequest"),
			401: openapi.ResponseRef("Unauthorized"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Search: &openapi.Operation{
		Summary:     "Search contributions",
		Tags:        []string{"Contributions"},
		RequestBody: openapi.RequestBodyJSON("ContributionSearch", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Paginated contributions", "ContributionPage"),
			400: openapi.ResponseRef("BadRequest"),
			401: openapi.ResponseRef("Unauthorized"),
		},
	},
	Classify: &openapi.Operation{
		Summary:     "Review a pending contribution",
		Description: "Approve requires brand and manufacturer. A contribution can be reviewed once.",
		Tags:        []string{"Contributions"},
		Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Contribution UUID")},
		RequestBody: openapi.RequestBodyJSON("ClassifyCommand", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Reviewed contribution", "Contribution"),
			400: openapi.ResponseRef("BadRequest"),
			401: openapi.ResponseRef("Unauthorized"),
			404: openapi.ResponseRef("NotFound"),
			409: openapi.ResponseRef("Conflict"),
			422: openapi.ResponseRef("UnprocessableEntity"),
		},
	},
}

// Schemas returns the component schemas referenced by the contribution routes.
func Schemas() map[string]*openapi.Schema {
	str := &openapi.Schema{Type: "string"}
	ts := &openapi.Schema{Type: "string", Format: "date-time"}
	num := &openapi.Schema{Type: "number"}

	return map[string]*openapi.Schema{
		"Contribution": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":                      {Type: "string", Format: "uuid"},
				"product_image_url":       str,
				"back_image_url":          str,
				"recycling_image_url":     str,
				"manufacturer_image_url":  str,
				"latitude":                num,
				"longitude":               num,
				"location_accuracy":       num,
				"beach_name":              str,
				"brand_suggestion":        str,
				"manufacturer_suggestion": str,
				"plastic_type_suggestion": str,
				"brand":                   str,
				"manufacturer":            str,
				"plastic_type":            str,
				"notes":                   str,
				"contributor_id":          str,
				"status":                  {Type: "string", Enum: []any{StatusPending, StatusClassified, StatusRejected}},
				"created_at":              ts,
				"updated_at":              ts,
				"classified_at":           ts,
				"reviewed_by":             str,
				"review_notes":            str,
			},
		},
		"ContributionPage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("Contribution")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
				"has_next":    {Type: "boolean"},
			},
		},
		"ContributionSearch": {
			Type:        "object",
			Description: "PageRequest fields combined with filters",
			Properties: map[string]*openapi.Schema{
				"page":           {Type: "integer"},
				"page_size":      {Type: "integer"},
				"search":         str,
				"sort":           str,
				"status":         str,
				"brand":          str,
				"manufacturer":   str,
				"plastic_type":   str,
				"beach_name":     str,
				"reviewed_by":    str,
				"contributor_id": str,
				"created_after":  ts,
				"created_before": ts,
				"min_latitude":   num,
				"max_latitude":   num,
				"min_longitude":  num,
				"max_longitude":  num,
			},
		},
		"ClassifyCommand": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"decision":     {Type: "string", Enum: []any{"approve", "reject"}},
				"brand":        str,
				"manufacturer": str,
				"plastic_type": str,
				"beach_name":   str,
				"notes":        str,
				"review_notes": str,
				"reviewed_by":  {Type: "string", Description: "Ignored when the request is authenticated"},
			},
			Required: []string{"decision"},
		},
	}
}
