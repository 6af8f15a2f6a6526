package models

// ImportResult reports the outcome of a bulk CSV import. TotalRows counts
// data rows seen (header excluded); rows that failed to parse or validate
// show up in Errors and are skipped.
type ImportResult struct {
	Imported  int      `json:"imported"`
	Errors    []string `json:"errors"`
	TotalRows int      `json:"total_rows"`
}

// CSVTemplate wraps a downloadable import template.
type CSVTemplate struct {
	Template string `json:"template"`
}
