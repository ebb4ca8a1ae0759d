// Package format renders decoded tone entities as the multi-line text
// returned by the MCP tools.
//
// Every function is total: absent fields become Unknown, empty lists and
// absent due dates become None, and free-text fields (titles, descriptions,
// tag names) pass through Escape. Multiple entries are joined with
// Separator in the order received.
package format
