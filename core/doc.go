// Package core provides the foundational domain types shared by every other
// thinkact package. It defines the core abstractions for:
//
//   - Messages (role tagged conversation entries, optionally carrying a tool call)
//   - Memory (append-only message history with parent lineage for avatars)
//   - Agent handles (the surface a tool sees when it asks for its caller)
//   - ToolContext (scoped execution data handed to a running tool)
//
// The package keeps implementation concerns (model transports, tool dispatch,
// the think-act loop) out of scope so it can be imported from anywhere without
// cycles.
package core
