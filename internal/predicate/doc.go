// Package predicate compiles and evaluates boolean filter expressions over
// log records.
//
// An expression is compiled once with Compile and evaluated per record with
// (*Predicate).Evaluate. Field references resolve through package path, so a
// predicate sees exactly the values a projection would.
//
// Syntax (keywords are case-insensitive):
//
//	status = 200 and not (level is 'debug')
//	req.sdk.version >= "1.2" or exists `jsonpath:$.errors[0]`
//	msg matches '^timeout' && user in ['alice', 'bob']
//	trace_id is undefined
//
// Evaluation is lenient: a comparison that touches a missing field, or whose
// operands have no ordering, is false. Evaluate never returns an error.
package predicate
