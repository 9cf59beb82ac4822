// Package filter compiles JSON boolean selectors into parameterized
// PostgreSQL WHERE fragments.
//
// A selector is either empty, a single statement comparing fields with
// $eq/$ne/$lt/$lte/$gt/$gte, or a $and/$or group of nested selectors:
//
//	{"operator": {"$and": [
//		{"statement": {"age": {"$gte": 18}}},
//		{"statement": {"country": {"$eq": "Germany"}}}
//	]}}
//
// compiles to
//
//	(age >= :age) AND (country = :country)
//
// with {"age": 18, "country": "Germany"} bound out-of-band, so selector
// values can never inject SQL text. The compiled filter also reports every
// field it referenced, which the schema package checks against the target
// table before the fragment is executed.
package filter
