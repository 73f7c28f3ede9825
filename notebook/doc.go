// Package notebook provides a process-local keyword-indexed note store and a
// Toolset that lets agents record, search and list notes. Notes are scoped
// per caller: every tool receives the caller's name and only sees that
// caller's notes.
//
// The judge_and_save tool consults a private avatar of its caller before
// recording, so the deliberation never reaches the caller's memory.
package notebook
