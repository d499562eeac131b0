package mensa

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/wallboard/wallboard/app/parser"
)

const defaultMensaName = "Mensa Rempartstraße"

// Parser extracts the day/item tree from the menu feed XML. All fields are
// best-effort: absent elements become empty strings so rendering stays total.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Run returns the raw mensa name and one Day per tagesplan element, in source
// order and without any relevance annotation. Days without a datum attribute
// are dropped.
func (p *Parser) Run(data []byte) (string, []Day, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return "", nil, &parser.ParseError{Format: "mensa-xml", Reason: err.Error()}
	}

	mensaName := defaultMensaName
	if el := doc.FindElement("//mensa"); el != nil && strings.TrimSpace(el.Text()) != "" {
		mensaName = strings.TrimSpace(el.Text())
	}

	var days []Day
	for _, dayEl := range doc.FindElements("//tagesplan") {
		date := dayEl.SelectAttrValue("datum", "")
		if date == "" {
			continue
		}

		items := make([]Item, 0)
		for _, itemEl := range dayEl.FindElements(".//menue") {
			items = append(items, Item{
				Category:  itemEl.SelectAttrValue("art", ""),
				Name:      childText(itemEl, ".//name"),
				Tags:      itemEl.SelectAttrValue("zusatz", ""),
				Allergens: childText(itemEl, ".//allergene"),
				Additives: childText(itemEl, ".//kennzeichnungen"),
				Prices: Prices{
					Student: childText(itemEl, ".//preis/studierende"),
					Staff:   childText(itemEl, ".//preis/angestellte"),
					Guest:   childText(itemEl, ".//preis/gaeste"),
					Pupil:   childText(itemEl, ".//preis/schueler"),
				},
			})
		}

		days = append(days, Day{
			Date:  date,
			Items: items,
		})
	}

	return mensaName, days, nil
}

// childText is the optional-lookup helper: first match's trimmed text, or ""
// when the path finds nothing.
func childText(el *etree.Element, path string) string {
	if found := el.FindElement(path); found != nil {
		return strings.TrimSpace(found.Text())
	}
	return ""
}
