// Package pipeline runs the extraction pass over a newline-delimited JSON
// log: decode each line, filter it with an optional predicate, project the
// requested fields, and collect canonical serializations in a ResultSet.
//
// Every processed line ends in one of two states:
//   - Kept: decoded, matched (or no predicate), projected, added to the set
//   - Dropped: decoded but rejected by the predicate
//
// The line budget counts decoded lines whether they match or not. It means
// "process at most N raw lines", not "collect at most N matches". Once it is
// spent the run stops; Stats.LimitReached is set only if input remained.
//
// A line that fails to decode aborts the run with a *DecodeError; no partial
// result is returned.
package pipeline
