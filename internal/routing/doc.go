// Package routing provides a declarative route compiler and matcher.
//
// Route patterns are plain paths with bracketed placeholders that compile
// down to anchored regular expressions. A placeholder has the shape
// (separator?)[type(:name)?](optional?), for example:
//
//	/user/[i:id]          // integer parameter "id"
//	/posts/[*:title]      // lazy catch-all parameter "title"
//	/file.[a:ext]?        // optional alphanumeric extension
//	/choose/[create|edit:action]
//
// Besides bracket patterns, a route pattern may be the literal "*" (matches
// every path once the method set has filtered), a raw regular expression
// prefixed with "@" (applied as-is at match time), or a plain literal path
// (compared after trimming slashes).
//
// Routes live in a Registry, which keeps insertion order, indexes routes by
// name and tag, and can reverse-generate a concrete path from a route name
// and parameter values. Matching is first-match-wins in registration order;
// there is no specificity scoring.
//
// Example usage:
//
//	reg := routing.NewRegistry()
//	err := reg.Add(&routing.Route{
//		Name:       "device.state",
//		Pattern:    "/device/[i:id]",
//		Methods:    []string{"GET"},
//		Controller: "DeviceController",
//		Action:     "state",
//	})
//
//	match, err := reg.Match(routing.Request{Method: "GET", Path: "/device/42"}, "")
//	if match != nil {
//		id := match.Params["id"] // "42"
//	}
//
// A nil match with a nil error means no route applies; callers map that to
// a 404-equivalent response. Matching never mutates routes: parameter
// values are returned as a fresh map on each call.
package routing
