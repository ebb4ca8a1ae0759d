// Package tone provides a client for the tone task-management API.
//
// The tone API is RPC-style: every operation is a POST of a JSON object to
// <base-url>/<service>/<Method>, authenticated with a per-user bearer secret.
// The API does not distinguish reads from writes at the transport level, so
// the client exposes two explicit call modes:
//
//   - Query decodes the JSON response body into a typed envelope. Every
//     failure (network error, timeout, non-2xx status, undecodable body) is
//     reported as a *QueryError whose message is meant to be shown verbatim
//     to the calling agent.
//   - Mutate discards the body and returns an Outcome: Success only when the
//     status code is exactly 200, Failed for everything else.
//
// No request is retried. A single failure is terminal for that call.
//
// # Example Usage
//
//	client, err := tone.NewClient(tone.Config{Secret: secret})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	var resp tone.TasksResponse
//	err = client.Query(ctx, tone.MethodGetMyTasks, map[string]any{
//	    "workspace_id": workspaceID,
//	}, &resp)
//	if err != nil {
//	    fmt.Println(err) // human-readable, includes the request body
//	}
//
//	outcome := client.Mutate(ctx, tone.MethodUpdateTaskTitle, map[string]any{
//	    "workspace_id": workspaceID,
//	    "task_id":      taskID,
//	    "title":        "Ship it",
//	})
//	fmt.Println(outcome) // "Success" or "Failed"
package tone
