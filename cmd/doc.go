// Package cmd implements the command-line interface for tone-mcp.
//
// This package provides the following commands:
//   - serve: Start the MCP server (stdio or streamable HTTP)
//   - version: Display version information
//   - generate-docs: Generate markdown documentation for all MCP tools
//
// serve is the default command when no subcommand is specified. The user
// secret comes from --secret/-s or TONE_AI_USER_SECRET; a .env file in the
// working directory is loaded first and never overrides the environment.
package cmd
