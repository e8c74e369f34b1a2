// Package web holds the single-page upload form served at "/".
package web

import _ "embed"

//go:embed index.html
var Index []byte
