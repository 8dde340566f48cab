// Package types defines the data model shared by the store, the adapters,
// the router, and the protocol surface: paths, item types, menu items, and
// the content-engine error taxonomy.
package types

import "strings"

// SplitPath splits a "NAMESPACE/SELECTOR" path into its namespace and
// selector parts. The selector always starts with "/" once present; one
// trailing "/" is trimmed, and an empty or "/" selector normalises to "".
func SplitPath(path string) (namespace, selector string) {
	idx := strings.IndexByte(path, '/')
	if idx < 0 {
		return path, ""
	}
	namespace = path[:idx]
	selector = strings.TrimSuffix(path[idx:], "/")
	if selector == "/" {
		selector = ""
	}
	return namespace, selector
}

// JoinPath re-serialises a namespace/selector pair into a path string.
func JoinPath(namespace, selector string) string {
	if selector == "" || selector == "/" {
		return namespace
	}
	if !strings.HasPrefix(selector, "/") {
		selector = "/" + selector
	}
	return namespace + selector
}

// CleanSelector normalises a selector: collapses a bare "/" to "", rejects
// "//" and ".." segments by returning ok=false.
func CleanSelector(selector string) (clean string, ok bool) {
	if selector == "" || selector == "/" {
		return "", true
	}
	if !strings.HasPrefix(selector, "/") {
		selector = "/" + selector
	}
	selector = strings.TrimSuffix(selector, "/")
	if strings.Contains(selector, "//") {
		return "", false
	}
	for _, seg := range strings.Split(selector, "/") {
		if seg == ".." {
			return "", false
		}
	}
	return selector, true
}
