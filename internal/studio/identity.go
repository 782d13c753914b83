package studio

import "strings"

// NewID is the path token for a studio that has not been created yet.
const NewID = "new"

// ListPath is the route of the studio list.
const ListPath = "/studios"

// Identity is the studio a view instance is bound to. It never changes for
// the lifetime of the instance.
type Identity struct {
	ID    string
	IsNew bool
}

// ResolveIdentity maps the route parameter onto an Identity.
func ResolveIdentity(param string) Identity {
	return Identity{ID: param, IsNew: param == NewID}
}

// DetailPath is the route of one studio.
func DetailPath(id string) string {
	return ListPath + "/" + id
}

// ParsePath splits a route into its studio parameter. ok is false for
// anything that is not a detail route.
func ParsePath(path string) (param string, ok bool) {
	rest, found := strings.CutPrefix(path, ListPath+"/")
	if !found || rest == "" || strings.Contains(rest, "/") {
		return "", false
	}
	return rest, true
}
