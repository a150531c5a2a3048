package core

import (
	"encoding/binary"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for graph nodes.
// The graph assigns IDs from an insertion sequence, so a lower ID always
// means an earlier insertion.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// Identical content always produces identical IDs. Used for fingerprinting
// ingested records so a re-scraped URL is not ingested twice.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// NodeKind is the closed category a graph node belongs to.
type NodeKind int

const (
	// KindContent is the top-level node created for every ingested record.
	KindContent NodeKind = iota + 1
	// KindQuestion is a question derived from an faq record.
	KindQuestion
	// KindAnswer is the answer paired with a question.
	KindAnswer
	// KindSpecification holds the specifications block of a data record.
	KindSpecification
	// KindDownloadLink is a single download link of a data record.
	KindDownloadLink
	// KindAPIDoc holds the documentation text of an api record.
	KindAPIDoc
	// KindCodeExample holds the code examples of an api record.
	KindCodeExample
)

var nodeKindNames = map[NodeKind]string{
	KindContent:       "content",
	KindQuestion:      "question",
	KindAnswer:        "answer",
	KindSpecification: "specifications",
	KindDownloadLink:  "download_link",
	KindAPIDoc:        "api_documentation",
	KindCodeExample:   "code_example",
}

// String returns the wire name of the kind, or "unknown" for invalid values.
func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseNodeKind resolves a wire name back to a NodeKind.
// Returns ErrInvalidNodeKind for unrecognized names.
func ParseNodeKind(name string) (NodeKind, error) {
	for kind, n := range nodeKindNames {
		if n == name {
			return kind, nil
		}
	}
	return 0, ErrInvalidNodeKind
}

// Relation is the closed category an edge represents.
type Relation int

const (
	// RelationContains links a content node to a derived question.
	RelationContains Relation = iota + 1
	// RelationHasAnswer links a question to its single answer.
	RelationHasAnswer
	// RelationHasSpecification links a content node to its specifications.
	RelationHasSpecification
	// RelationHasDownload links a content node to a download link.
	RelationHasDownload
	// RelationHasDocumentation links a content node to its API documentation.
	RelationHasDocumentation
	// RelationHasExample links a content node to its code examples.
	RelationHasExample
)

var relationNames = map[Relation]string{
	RelationContains:         "contains",
	RelationHasAnswer:        "has_answer",
	RelationHasSpecification: "has_specifications",
	RelationHasDownload:      "has_download",
	RelationHasDocumentation: "has_documentation",
	RelationHasExample:       "has_example",
}

// String returns the wire name of the relation, or "unknown" for invalid values.
func (r Relation) String() string {
	if name, ok := relationNames[r]; ok {
		return name
	}
	return "unknown"
}

// ParseRelation resolves a wire name back to a Relation.
// Returns ErrInvalidRelation for unrecognized names.
func ParseRelation(name string) (Relation, error) {
	for relation, n := range relationNames {
		if n == name {
			return relation, nil
		}
	}
	return 0, ErrInvalidRelation
}

// Attribute keys shared by the graph, the search engine and the responder.
const (
	AttrURL         = "url"
	AttrTitle       = "title"
	AttrTextContent = "text_content"
	AttrContentType = "content_type"
	AttrMetadata    = "metadata"
	AttrText        = "text"
	AttrSourceURL   = "source_url"
	AttrFileType    = "file_type"
	AttrData        = "data"
	AttrCode        = "code"
)

// GraphNode is a node of the content graph.
// Nodes are never mutated after creation except to attach a computed
// embedding; the graph is their sole owner.
type GraphNode struct {
	ID         ID
	Kind       NodeKind
	Attributes map[string]string
	Embedding  []float32 // nil when no embedding provider was available
}

// Attr returns the named attribute, or "" when absent.
func (n *GraphNode) Attr(key string) string {
	if n == nil || n.Attributes == nil {
		return ""
	}
	return n.Attributes[key]
}

// GraphEdge is a directed, typed edge between two graph nodes.
// Multiple edges between the same pair with different relations are allowed.
type GraphEdge struct {
	Source   ID
	Target   ID
	Relation Relation
}

// ContentType tags an ingested record and selects the derivation applied to it.
type ContentType string

const (
	ContentTypeFAQ     ContentType = "faq"
	ContentTypeData    ContentType = "data"
	ContentTypeAPI     ContentType = "api"
	ContentTypeGeneral ContentType = "general"
)

// FAQEntry is a single question/answer pair of an faq record.
type FAQEntry struct {
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	SourceURL string `json:"source_url"`
}

// DataInfo carries the data-record specific fields of a ContentRecord.
type DataInfo struct {
	Specifications map[string]string `json:"specifications,omitempty"`
}

// DownloadLink is a single download link of a data record.
type DownloadLink struct {
	URL      string `json:"url"`
	Text     string `json:"text"`
	FileType string `json:"file_type"`
}

// APIInfo carries the api-record specific fields of a ContentRecord.
type APIInfo struct {
	Documentation string `json:"documentation,omitempty"`
	CodeExamples  string `json:"code_examples,omitempty"`
}

// ContentRecord is the ingestion input produced by a scraper.
// The JSON shape matches the scraper output: a flat record with
// type-specific nested fields that are only populated for their type.
type ContentRecord struct {
	URL           string            `json:"url"`
	ContentType   ContentType       `json:"content_type"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	TextContent   string            `json:"text_content"`
	FAQs          []FAQEntry        `json:"faqs,omitempty"`
	DataInfo      DataInfo          `json:"data_info,omitempty"`
	DownloadLinks []DownloadLink    `json:"download_links,omitempty"`
	APIInfo       APIInfo           `json:"api_info,omitempty"`
}

// Title returns the record title from metadata, or "" when absent.
func (r *ContentRecord) Title() string {
	if r.Metadata == nil {
		return ""
	}
	return r.Metadata["title"]
}

// Fingerprint returns a deterministic ID for the record, derived from its URL.
// Two scrapes of the same URL fingerprint identically.
func (r *ContentRecord) Fingerprint() ID {
	return IDFromContent(r.URL)
}

// SearchResult is one ranked hit of a search call.
// Results are produced fresh per call and ordered by descending score.
type SearchResult struct {
	NodeID ID
	Score  float64
	Node   *GraphNode
}

// GraphStats summarizes the graph contents.
type GraphStats struct {
	TotalNodes    int            `json:"total_nodes"`
	TotalEdges    int            `json:"total_edges"`
	NodeKinds     map[string]int `json:"node_types"`
	EdgeRelations map[string]int `json:"edge_types"`
}

// Intent is the closed category describing what a user query is trying to accomplish.
type Intent string

const (
	IntentInformationRetrieval Intent = "information_retrieval"
	IntentDataDownload         Intent = "data_download"
	IntentTechnicalSupport     Intent = "technical_support"
	IntentGeospatialQuery      Intent = "geospatial_query"
	IntentAPIHelp              Intent = "api_help"
	IntentGeneralQuestion      Intent = "general_question"
	IntentUnknown              Intent = "unknown"
)

// EntityKind is the closed category of a typed span extracted from query text.
type EntityKind string

const (
	EntityLocation    EntityKind = "location"
	EntitySatellite   EntityKind = "satellite"
	EntitySensor      EntityKind = "sensor"
	EntityDataType    EntityKind = "data_type"
	EntityTimePeriod  EntityKind = "time_period"
	EntityResolution  EntityKind = "resolution"
	EntityFileFormat  EntityKind = "file_format"
	EntityAPIEndpoint EntityKind = "api_endpoint"
)

// QueryAnalysis is the result of classifying one query.
// Entity values keep their first-occurrence order with duplicates removed.
type QueryAnalysis struct {
	Intent         Intent
	Entities       map[EntityKind][]string
	Confidence     float64
	Keywords       []string
	OriginalQuery  string
	ProcessedQuery string
}
