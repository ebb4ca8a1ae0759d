package instrumentation

import (
	"strconv"
	"strings"
)

// Cardinality management helpers.
//
// Batch tools accept arbitrary numbers of task IDs, so anything that copies
// IDs into logs or span attributes goes through LimitIDs. Metric labels never
// carry IDs except the workspace, and only when DetailedLabels is set.

// Tool modes, matching the two call modes of the tone client.
const (
	ModeQuery    = "query"
	ModeMutation = "mutation"
)

// ModeFor returns the tool mode for an RPC name. Reads are the Get* methods;
// everything else changes remote state.
func ModeFor(method string) string {
	if strings.HasPrefix(method, "Get") {
		return ModeQuery
	}
	return ModeMutation
}

// LimitIDs returns at most limit IDs from ids. When ids is truncated the last
// element is replaced by a marker such as "+12 more".
//
// Example:
//
//	LimitIDs([]string{"a", "b", "c"}, 5)  // [a b c]
//	LimitIDs([]string{"a", "b", "c"}, 2)  // [a +2 more]
func LimitIDs(ids []string, limit int) []string {
	if limit <= 0 || len(ids) <= limit {
		return ids
	}
	out := make([]string, limit)
	copy(out, ids[:limit-1])
	out[limit-1] = "+" + strconv.Itoa(len(ids)-limit+1) + " more"
	return out
}
