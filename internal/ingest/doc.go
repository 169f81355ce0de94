// Package ingest reads the state's monthly dispensary sales reports
// from disk and turns them into cleaned rows for the trend engine.
//
// Reports arrive as Excel workbooks or CSV exports, one file per
// calendar month, with the month encoded in the filename rather than
// the data. Ingestion discovers the files, resolves each file's month
// token, maps the header columns, strips currency formatting, and
// drops blank-licensee and TOTAL summary rows. Everything downstream
// works on domain.SalesRow values only.
package ingest
