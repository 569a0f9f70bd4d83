// Package site builds the static HTML companion site from a tree of
// Jupyter notebooks: header and footer cells are injected, every
// notebook is rendered to HTML, and group-by index pages plus an update
// manifest are emitted. A watch mode rebuilds notebooks as they change.
package site
