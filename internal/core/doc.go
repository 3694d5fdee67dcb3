// Package core provides the query side of the school report API.
//
// It holds no HTTP code; web handlers and tests drive it directly.
//
// # Endpoint Registry
//
// Endpoints are registered at init time using [Register]. Each
// [EndpointDefinition] pairs a fixed SELECT with a [FilterCatalog] that lists
// every filter the endpoint accepts:
//
//	core.Register(core.EndpointDefinition{
//	    Key:     "schools",
//	    Filters: core.MustFilterCatalog(core.TextContains("name", "b.name")),
//	    Select:  "SELECT b.irn, b.name FROM Building b",
//	    OrderBy: "b.name",
//	})
//
// # Filters
//
// Request values pass through [BuildFilters], which walks the catalog in
// declaration order, drops absent or unparseable values, and binds the rest
// as positional parameters ($1, $2, ...). Values are never interpolated into
// SQL text. Aggregate filters land in HAVING and continue the same numbering.
//
// # Error Handling
//
// Technical errors are mapped to client-safe messages using [MapError].
// Database text, including the SQL, stays in the server logs.
package core
