// Package launchdash is an interactive dashboard over SpaceX launch records.
//
// Layout:
//
//	engine     pure filters, aggregates and chart specs over a LaunchTable
//	schema     dataset column mapping (headers → launch record fields)
//	helpers    CSV / TSV / XLSX loading into an immutable LaunchTable
//	dashboard  reactive controller: control events → chart recomputes
//	render     ChartSpec → PNG / SVG
//	server     HTTP API and websocket sessions
//	config     YAML configuration
//
// The engine never performs I/O and never logs; every other package takes
// a logr.Logger. The loaded table is shared read-only by every session.
package launchdash
