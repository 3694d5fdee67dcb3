// Package loader runs the SQL scripts that seed the reporting database.
//
// Scripts are executed one at a time, in name order, each inside its own
// transaction on a single connection. A script that contains
//
//	\copy <table> FROM '<path>'
//
// directives has each referenced CSV file read in-process: the target
// table's columns are looked up in information_schema, every record is
// coerced to those column types with core.Coerce, and rows are inserted
// with ON CONFLICT DO NOTHING. Any other script is split on semicolons at
// line ends and its statements run in order.
//
// The first failure in a script rolls back everything that script did and
// the run continues with the next one. Statement splitting and directive
// matching are regular-expression based and do not understand string
// literals or comments.
package loader
