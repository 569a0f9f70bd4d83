// Package notebook reads and rewrites Jupyter notebook files in the
// nbformat 4 layout. It injects the shared header and footer cells,
// harvests the title, tag and difficulty metadata used by the group-by
// index pages, and preserves cell metadata it does not understand.
package notebook
