// Package fonts provides the built-in font catalog and the web stylesheet
// that renders its class tokens.
//
// Both files are embedded directly into the binary using go:embed, so the
// gallery works without any external catalog.
package fonts

import (
	_ "embed"
)

//go:embed catalog.json
var catalogJSON []byte

//go:embed gallery.css
var galleryCSS []byte

// CatalogJSON returns the built-in catalog as a JSON array of font descriptors.
func CatalogJSON() []byte {
	return catalogJSON
}

// Stylesheet returns the CSS served with the HTML gallery. It defines one rule
// per class token in the built-in catalog.
func Stylesheet() []byte {
	return galleryCSS
}

// DefaultSampleText is rendered when the sample text input is empty.
const DefaultSampleText = "The quick brown fox jumps over the lazy dog"
