// Package board parses, validates, and edits markdown task boards.
//
// A board is a single markdown document split into sections by heading
// lines. Sections hold task records:
//
//	## Current Sprint
//
//	### In Progress
//
//	### [ARCH-001] Design authentication
//	- **Priority**: P1
//	- **Assigned**: @architect
//	- **Created**: 2026-10-19
//	- **Updated**: 2026-10-20
//	- **Status**: In Progress
//
//	### Review
//
//	_No tasks currently in review_
//
// A task record starts at a heading of level three or deeper whose text
// begins with a bracketed identifier and ends at the next blank line, the
// next heading, or the end of the document. Each section with fixed
// semantics has a placeholder line such as "_No tasks currently in
// review_", present only while the section has no tasks. Other sections
// may carry one "_No ..._" line of their own. Any other text is kept where
// it was written; text between two tasks travels with the task above it.
//
// # Model
//
// Parse turns the document into a Board (preamble plus ordered sections,
// each with typed task records). Edits operate on the Board and Render
// serializes it again. Rendering is deterministic, so parsing a rendered
// board and rendering it again yields the same bytes.
//
// # Sections
//
// Some section titles carry meaning:
//
//   - "High Priority (P1)", "Medium Priority (P2)", "Low Priority (P3)":
//     backlog tiers, status "Backlog"
//   - "In Progress", "Review", "Testing": status equal to the title
//   - "Recent Completions": status "Done"
//
// Moving a task into one of these sections rewrites its status; moving it
// anywhere else leaves the status alone.
package board
