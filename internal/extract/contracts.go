package extract

// Page is the text of one sampled page. PageNumber is the 1-based position in
// the source document; it is preserved even when sampling skips pages.
type Page struct {
	PageNumber int    `json:"page_number"`
	Text       string `json:"text"`
}

// Table is a run of at least two consecutive table-like lines on one page.
type Table struct {
	PageNumber int        `json:"page_number"`
	Rows       [][]string `json:"rows"`
}

// Metadata describes the source document.
type Metadata struct {
	FileName         string `json:"file_name"`
	PagesCount       int    `json:"pages_count"`
	DetectedLanguage string `json:"detected_language"`
}

// Result is the outcome of one parse call. It is created once and never
// mutated afterward. Every key in KeyValues has a matching key in
// KeyValuesConfidence.
type Result struct {
	RawText             string             `json:"raw_text"`
	Pages               []Page             `json:"pages"`
	Tables              []Table            `json:"tables"`
	Metadata            Metadata           `json:"metadata"`
	KeyValues           map[string]*string `json:"key_values"`
	KeyValuesConfidence map[string]float64 `json:"key_values_confidence"`
	UsedOCR             bool               `json:"used_ocr"`
}
