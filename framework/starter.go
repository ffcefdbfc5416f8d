package framework

import (
	"fmt"
	"strings"
)

// StarterKind names a starter template.
type StarterKind string

const (
	StarterEndpoint  StarterKind = "endpoint"
	StarterHTML      StarterKind = "html"
	StarterCSS       StarterKind = "css"
	StarterComponent StarterKind = "component"
	StarterHelper    StarterKind = "helper"
)

// StarterOptions parameterizes starter templates. Only the fields relevant to
// the chosen kind are read.
type StarterOptions struct {
	Method   string
	Endpoint string
	Name     string
	HasAuth  bool
}

// Starter renders the template for kind.
func Starter(kind StarterKind, opts StarterOptions) (string, error) {
	switch kind {
	case StarterEndpoint:
		if opts.Method == "" || opts.Endpoint == "" {
			return "", fmt.Errorf("endpoint starter needs method and endpoint")
		}
		return StarterEndpointCode(opts.Method, opts.Endpoint), nil
	case StarterHTML:
		return starterHTML, nil
	case StarterCSS:
		return starterCSS, nil
	case StarterComponent:
		if opts.Name == "" {
			return "", fmt.Errorf("component starter needs a name")
		}
		return StarterComponentCode(opts.Name, opts.HasAuth), nil
	case StarterHelper:
		if opts.Name == "" {
			return "", fmt.Errorf("helper starter needs a name")
		}
		return starterHelperCode(opts.Name), nil
	default:
		return "", fmt.Errorf("unknown starter kind %q", kind)
	}
}

// StarterEndpointCode renders an express router file for method and endpoint.
func StarterEndpointCode(method, endpoint string) string {
	return fmt.Sprintf(`const express = require('express');
const router = express.Router();
const { optionalAuthentication, requiredAuthentication } = require('swizzle-js');

router.%s('%s', optionalAuthentication, async (request, response) => {
    //Your code goes here
    return response.json({ message: "It works!" });
});

module.exports = router;`, strings.ToLower(method), endpoint)
}

// StarterComponentCode renders a React component, optionally wired to the
// auth hook.
func StarterComponentCode(name string, hasAuth bool) string {
	authImport, authHook := "", ""
	if hasAuth {
		authImport = "import {useAuthUser} from 'react-auth-kit'\n"
		authHook = "const auth = useAuthUser();"
	}
	return fmt.Sprintf(`import React from 'react';
%s
const %s = () => {
    %s
    return (
        <div>
            {/* Your content here */}
        </div>
    );
};

export default %s;`, authImport, name, authHook, name)
}

// StarterFor picks a template from a workspace file name: endpoint files get
// the router template, pages and components the React template, and plain
// .html/.css files their skeletons. ok is false for anything else.
func StarterFor(name string, hasAuth bool) (string, bool) {
	if method, route, ok := EndpointRoute(name); ok {
		return StarterEndpointCode(method, route), true
	}
	base := name[strings.LastIndex(name, "/")+1:]
	switch {
	case strings.HasSuffix(base, ".tsx") || strings.HasSuffix(base, ".jsx"):
		component := strings.TrimSuffix(strings.TrimSuffix(base, ".tsx"), ".jsx")
		component = strings.NewReplacer(".", "", "(", "", ")", "", "$", "", "-", "").Replace(component)
		return StarterComponentCode(component, hasAuth), true
	case strings.HasSuffix(base, ".html"):
		return starterHTML, true
	case strings.HasSuffix(base, ".css"):
		return starterCSS, true
	case strings.Contains(name, "/helpers/") && (strings.HasSuffix(base, ".ts") || strings.HasSuffix(base, ".js")):
		return starterHelperCode(trimSourceExt(base)), true
	}
	return "", false
}

func starterHelperCode(name string) string {
	return fmt.Sprintf("export default function %s(){\n\n}", name)
}

const starterHTML = `<!DOCTYPE html>
<html lang="en">
    <head>
        <meta charset="UTF-8">
        <title>Title</title>
    </head>
    <body>

        <!-- Your content here -->

    </body>
</html>`

const starterCSS = `/* Your CSS here */`
