package routes

import (
	"strings"

	"github.com/JaimeStill/shoreline/pkg/openapi"
)

// Describe adds every documented route in groups to spec.Paths. Wildcard
// segments such as {key...} are written as plain {key} path parameters.
func Describe(spec *openapi.Spec, groups ...Group) {
	for _, group := range groups {
		describeGroup(spec, "", group)
	}
}

func describeGroup(spec *openapi.Spec, parentPrefix string, group Group) {
	fullPrefix := parentPrefix + group.Prefix

	for _, route := range group.Routes {
		if route.OpenAPI == nil {
			continue
		}

		path := specPath(fullPrefix + route.Pattern)
		item, ok := spec.Paths[path]
		if !ok {
			item = &openapi.PathItem{}
			spec.Paths[path] = item
		}
		item.Set(route.Method, route.OpenAPI)
	}
	for _, child := range group.Children {
		describeGroup(spec, fullPrefix, child)
	}
}

func specPath(pattern string) string {
	if pattern == "" {
		return "/"
	}
	pattern = strings.ReplaceAll(pattern, "...}", "}")
	return strings.TrimSuffix(pattern, "{$}")
}
