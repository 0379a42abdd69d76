// Package report turns an analysis run into its output files.
//
// The package is organized by output format:
//
// # Run Model (report.go)
//
// Run, SiteResult, Failure, Mode. A Run is built by the runner from
// browser captures; every SiteResult carries its score and level so each
// writer renders them without re-scoring.
//
// # Text Report (text.go)
//
// RenderText renders the human-readable report with text/template and
// the sprig function library.
//
// # JSON Export (export.go)
//
// WriteJSON writes the run as an object keyed by site name. ParseExport
// reads either an export or a single raw fingerprint back for offline
// scoring.
//
// # PDF Summary (pdf.go)
//
// WritePDF renders a cover page with the run summary and one page per site.
//
// # Saving (save.go)
//
// Save writes the requested formats into the output directory using the
// run timestamp in each file name.
package report
