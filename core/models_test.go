package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "same content produces same ID", content: "https://example.org/faq"},
		{name: "empty string", content: ""},
		{name: "long content", content: "https://example.org/data/catalog?product=sst&format=hdf5&region=indian-ocean"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("https://example.org/a")
	id2 := IDFromContent("https://example.org/b")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestNodeKind_RoundTrip(t *testing.T) {
	kinds := []NodeKind{
		KindContent, KindQuestion, KindAnswer, KindSpecification,
		KindDownloadLink, KindAPIDoc, KindCodeExample,
	}

	for _, kind := range kinds {
		name := kind.String()
		if name == "unknown" {
			t.Fatalf("kind %d has no wire name", kind)
		}
		parsed, err := ParseNodeKind(name)
		if err != nil {
			t.Fatalf("ParseNodeKind(%q): %v", name, err)
		}
		if parsed != kind {
			t.Errorf("ParseNodeKind(%q) = %d, want %d", name, parsed, kind)
		}
	}
}

func TestNodeKind_Invalid(t *testing.T) {
	if got := NodeKind(0).String(); got != "unknown" {
		t.Errorf("NodeKind(0).String() = %q, want unknown", got)
	}
	if _, err := ParseNodeKind("not-a-kind"); err == nil {
		t.Error("ParseNodeKind accepted an unknown name")
	}
}

func TestRelation_RoundTrip(t *testing.T) {
	relations := []Relation{
		RelationContains, RelationHasAnswer, RelationHasSpecification,
		RelationHasDownload, RelationHasDocumentation, RelationHasExample,
	}

	for _, relation := range relations {
		name := relation.String()
		if name == "unknown" {
			t.Fatalf("relation %d has no wire name", relation)
		}
		parsed, err := ParseRelation(name)
		if err != nil {
			t.Fatalf("ParseRelation(%q): %v", name, err)
		}
		if parsed != relation {
			t.Errorf("ParseRelation(%q) = %d, want %d", name, parsed, relation)
		}
	}
}

func TestGraphNode_Attr(t *testing.T) {
	node := &GraphNode{
		ID:         1,
		Kind:       KindContent,
		Attributes: map[string]string{AttrTitle: "Ocean Data Products"},
	}

	if got := node.Attr(AttrTitle); got != "Ocean Data Products" {
		t.Errorf("Attr(title) = %q", got)
	}
	if got := node.Attr(AttrURL); got != "" {
		t.Errorf("Attr(url) = %q, want empty", got)
	}

	var nilNode *GraphNode
	if got := nilNode.Attr(AttrTitle); got != "" {
		t.Errorf("nil node Attr() = %q, want empty", got)
	}
}

func TestContentRecord_Fingerprint(t *testing.T) {
	a := &ContentRecord{URL: "https://example.org/faq", ContentType: ContentTypeFAQ}
	b := &ContentRecord{URL: "https://example.org/faq", ContentType: ContentTypeData}
	c := &ContentRecord{URL: "https://example.org/other", ContentType: ContentTypeFAQ}

	if a.Fingerprint() != b.Fingerprint() {
		t.Error("records with the same URL should fingerprint identically")
	}
	if a.Fingerprint() == c.Fingerprint() {
		t.Error("records with different URLs should fingerprint differently")
	}
}
