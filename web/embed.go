// Package web provides the embedded static front end. The single-page
// playground is plain HTML/JS with no build step and is served at / by
// the router.
package web

import "embed"

//go:embed all:static
var StaticFS embed.FS
