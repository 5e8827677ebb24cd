package models

// Requests for the report HTTP endpoints.

type ReportRequest struct {
	Symbol string `param:"symbol" json:"symbol" validate:"required,max=24"`
}

type ReportsRequest struct {
	Symbols string `query:"symbols" json:"symbols" validate:"required,max=512"`
}

// ReportItem is one entry of a multi-symbol response.
type ReportItem struct {
	Symbol string  `json:"symbol"`
	Report *Report `json:"report,omitempty"`
	Error  string  `json:"error,omitempty"`
}
