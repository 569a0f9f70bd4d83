// Package render converts Jupyter notebooks into standalone HTML pages.
// Markdown cells go through goldmark with raw HTML passthrough, code
// cells become pre blocks, and a post-processing pass over the parsed
// document hides tagged cells and inlines the shared stylesheet.
package render
