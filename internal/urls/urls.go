package urls

import "net/url"

// API routes served by a library server.
const (
	Health  = "/health"
	Scripts = "/api/scripts"
	Catalog = "/api/catalog"
	Feed    = "/ws"
	Images  = "/images/"
)

// ScriptPattern is the route pattern for a single script.
const ScriptPattern = Scripts + "/{id}"

// Script returns the path of a single script.
func Script(id string) string {
	return Scripts + "/" + url.PathEscape(id)
}

// Repository is the project home shown in version output.
const Repository = "https://github.com/muurk/premiere"
