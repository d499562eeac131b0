package parser

import (
	"strings"

	"github.com/beevik/etree"
)

// XMLParser extracts flat records from ad hoc XML documents. The primary
// repeating element under the document root is detected by frequency; each
// occurrence becomes one record keyed by its attributes and child element
// names. Missing children yield empty strings, never nulls, so downstream
// formatting stays total.
type XMLParser struct{}

func NewXMLParser() *XMLParser {
	return &XMLParser{}
}

func (p *XMLParser) Run(data []byte) (*Result, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, &ParseError{Format: "xml", Reason: err.Error()}
	}

	root := doc.Root()
	if root == nil {
		return nil, &ParseError{Format: "xml", Reason: "document has no root element"}
	}

	repeating := p.findRepeatingChildren(root)

	meta := map[string]string{"root": root.Tag}

	if len(repeating) == 0 {
		return &Result{
			Records:    []*Record{},
			Headers:    []string{},
			TotalCount: 0,
			SourceMeta: meta,
		}, nil
	}

	meta["element"] = repeating[0].Tag

	// Header order is the order of first appearance across all records
	var headers []string
	seen := make(map[string]bool)
	addHeader := func(name string) {
		if !seen[name] {
			seen[name] = true
			headers = append(headers, name)
		}
	}

	records := make([]*Record, 0, len(repeating))
	for _, el := range repeating {
		record := NewRecord()
		for _, attr := range el.Attr {
			key := "@" + attr.Key
			addHeader(key)
			record.SetString(key, attr.Value)
		}
		for _, child := range el.ChildElements() {
			addHeader(child.Tag)
			record.SetString(child.Tag, strings.TrimSpace(child.Text()))
		}
		records = append(records, record)
	}

	// Backfill fields absent on individual elements with empty strings
	for _, record := range records {
		for _, header := range headers {
			if _, ok := record.Get(header); !ok {
				record.SetString(header, "")
			}
		}
	}

	return &Result{
		Records:    records,
		Headers:    headers,
		TotalCount: len(records),
		SourceMeta: meta,
	}, nil
}

// findRepeatingChildren returns the occurrences of the most frequent child
// element tag under root. A document whose root has a single wrapper child
// is descended into before counting.
func (p *XMLParser) findRepeatingChildren(root *etree.Element) []*etree.Element {
	children := root.ChildElements()
	for len(children) == 1 && len(children[0].ChildElements()) > 0 {
		root = children[0]
		children = root.ChildElements()
	}

	if len(children) == 0 {
		return nil
	}

	counts := make(map[string]int)
	for _, child := range children {
		counts[child.Tag]++
	}

	bestTag := ""
	bestCount := 0
	for _, child := range children {
		if counts[child.Tag] > bestCount {
			bestCount = counts[child.Tag]
			bestTag = child.Tag
		}
	}

	var repeating []*etree.Element
	for _, child := range children {
		if child.Tag == bestTag {
			repeating = append(repeating, child)
		}
	}
	return repeating
}
