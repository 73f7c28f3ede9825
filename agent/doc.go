// Package agent contains the conversational tool-calling Agent and its
// think-act loop. The package focuses on three concerns:
//
//  1. Construction (New) wiring a model transport, a tool registry and a memory
//  2. The think-act loop (ThinkAndAct) alternating model calls and tool dispatch
//  3. Avatars (DeriveAvatar) that share tools and model but think in a
//     derived memory the origin never sees
//
// Loop semantics:
//   - Each iteration sends the effective memory (plus tool definitions when
//     any are registered) to the model and folds the streamed reply
//   - A reply carrying a tool call is recorded, the tool is dispatched and its
//     serialized result recorded as a tool message; the loop continues
//   - A reply without a tool call ends the loop; it is recorded only when
//     SurfacePlainMessages is set
//   - At most MaxToolIterations model calls happen per ThinkAndAct
//   - Transport failures are returned; tool failures are recorded as results
//
// An Agent runs one loop at a time. Memory itself is safe for concurrent use,
// so tools may read or append to their caller's memory while it is thinking.
package agent
