// Package core provides the business logic for study plan maintenance.
//
// This package holds the domain rules independent of the console: input
// normalization, the add/edit/delete operations and the mapping of
// technical errors to user messages. The menu loop in package application
// is its only caller in production; tests drive it directly.
//
// # Operations
//
// [Service] runs every operation, read or write, in its own transaction on
// the single store connection:
//
//   - [Service.AddPlan] inserts one planes row per valid subject code for a
//     career and semester, all or nothing
//   - [Service.EditPlan] replaces the semester (empty keeps it) and both dates
//   - [Service.DeletePlan] removes one row by id
//
// Each call gets an operation id that is attached to its log lines.
//
// # Normalization
//
// Semesters are stored as two digits ("3" becomes "03"). Dates are stored as
// ISO dates and may be typed as YYYY-MM-DD or DD/MM/YYYY; empty or NULL
// clears a date, anything else is [ErrInvalidDate].
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - VAL001-VAL004: Validation errors (semester, date, id, subjects)
//   - REF001-REF002: Reference errors (career, plan not found)
//   - DB001-DB008: Database errors (constraints, connections, timeouts)
package core
