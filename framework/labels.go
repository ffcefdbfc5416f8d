package framework

import (
	"path"
	"strings"
)

const pagesDir = "/frontend/src/pages/"

var endpointMethods = []string{"get", "post", "put", "delete", "patch"}

var routeParamReplacer = strings.NewReplacer(".", "/", "(", ":", ")", "")

// TabLabel derives the editor tab title for a workspace file. Endpoint files
// are named "<method>.<segments>.ts" and render as "GET /users/:id"; scheduled
// endpoints render as "⏲ <name>"; frontend pages render as their route.
// Everything else keeps its base name.
func TabLabel(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	base := path.Base(name)
	if method, rest, ok := splitEndpointName(base); ok {
		if _, job, isCron := strings.Cut(rest, ".cron."); isCron {
			return "⏲ " + job
		}
		return strings.ToUpper(method) + " /" + routeParamReplacer.Replace(trimSourceExt(rest))
	}
	if strings.Contains(name, pagesDir) {
		if strings.Contains(name, pagesDir+"SwizzleHomePage") {
			return "/"
		}
		route := strings.TrimSuffix(base, ".tsx")
		route = routeParamReplacer.Replace(route)
		route = strings.ToLower(strings.ReplaceAll(route, "$", ":"))
		if !strings.HasPrefix(route, "/") {
			route = "/" + route
		}
		return route
	}
	return base
}

// EndpointRoute returns the HTTP method and route encoded in an endpoint
// file name, e.g. "post.users.(id).ts" -> "post", "/users/:id".
func EndpointRoute(name string) (method, route string, ok bool) {
	method, rest, ok := splitEndpointName(path.Base(strings.ReplaceAll(name, "\\", "/")))
	if !ok {
		return "", "", false
	}
	return method, "/" + routeParamReplacer.Replace(trimSourceExt(rest)), true
}

func splitEndpointName(base string) (method, rest string, ok bool) {
	for _, m := range endpointMethods {
		if r, found := strings.CutPrefix(base, m+"."); found && r != "" {
			return m, r, true
		}
	}
	return "", "", false
}

func trimSourceExt(name string) string {
	for _, ext := range []string{".ts", ".js"} {
		if strings.HasSuffix(name, ext) {
			return strings.TrimSuffix(name, ext)
		}
	}
	return name
}
