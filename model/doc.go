// Package model defines the provider-agnostic transport contract used by the
// think-act loop, together with the stream accumulator that folds streamed
// fragments into a single message.
//
// Core goals:
//   - One streaming interface (Model) for every provider
//   - A uniform fragment shape (Fragment) for role, content and tool-call deltas
//   - Deterministic accumulation (Accumulator) independent of chunk boundaries
//   - Lightweight scripted models for tests (ScriptedModel)
//
// Providers (openai, anthropic, gemini, compat) live in subpackages so higher
// layers stay decoupled from vendor SDKs.
package model
