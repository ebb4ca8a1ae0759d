// Package batch provides parameter helpers for tools that operate on
// several tasks in one call.
//
// This package includes helpers for:
//   - Parsing task ID parameters that accept both single values and arrays
//   - Parsing optional ID arrays that may be empty
//
// The whole ID list is forwarded to the API in a single request; whether
// the update applies atomically is decided by the remote service, so no
// per-item results are collected here.
package batch
