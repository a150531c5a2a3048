package respond

import "github.com/orbitalgrid/helpgraph/core"

// Response kinds, one per response builder.
const (
	TypeSpatial  = "spatial"
	TypeDownload = "data_download"
	TypeAPIHelp  = "api_help"
	TypeSupport  = "technical_support"
	TypeGeneral  = "general"
)

// Source points back at the page a result node came from.
type Source struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

// DownloadInfo is the structured payload of a data-download response.
type DownloadInfo struct {
	Links          []core.DownloadLink `json:"download_links"`
	Specifications []map[string]string `json:"data_specifications"`
}

// APIInfo is the structured payload of an api-help response.
type APIInfo struct {
	Documentation []string `json:"documentation"`
	CodeExamples  []string `json:"code_examples"`
}

// FAQ is one resolved question/answer pair of a support response.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// SupportInfo is the structured payload of a technical-support response.
type SupportInfo struct {
	FAQs []FAQ `json:"faqs"`
}

// Response is the assembled answer for one classified query.
// Exactly one of the typed payloads is populated, matching Type.
type Response struct {
	Success     bool                `json:"success"`
	Type        string              `json:"response_type"`
	Error       string              `json:"error,omitempty"`
	Analysis    core.QueryAnalysis  `json:"query_analysis"`
	Results     []core.SearchResult `json:"results"`
	Sources     []Source            `json:"sources"`
	Suggestions []string            `json:"suggestions"`

	Download *DownloadInfo `json:"download_information,omitempty"`
	API      *APIInfo      `json:"api_information,omitempty"`
	Support  *SupportInfo  `json:"support_information,omitempty"`
}
