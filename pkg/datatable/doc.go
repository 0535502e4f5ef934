// Package datatable is the state machine behind every list screen of the back office.
//
// A Table owns sorting, global filtering, row selection and pagination for one
// table instance and exposes the result as a RenderModel that any renderer
// (templ components, terminal tables) can draw without knowing which mode is
// active.
//
// Three modes exist, chosen once at construction:
//   - ModeClient: filter, sort and paginate individual rows in memory.
//   - ModeServer: fully controlled; state is read from ServerSide and every
//     change is raised as a callback for the caller to apply and feed back.
//   - ModeGrouped: pagination counts groups, each visible group is flattened
//     into item rows carrying group markers for row-spanned shared cells.
//
// The package imports only the standard library so it can be reused by the
// HTTP console and the CLI alike.
package datatable
