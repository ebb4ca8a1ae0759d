// Package resources provides MCP resources for tone account data.
// Resources are read-only JSON documents that MCP clients can fetch as
// context: the calling user's profile and the workspace tree (workspaces,
// teamspaces and lists), which carry the IDs every task tool needs.
package resources
