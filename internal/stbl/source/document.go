package source

import "encoding/xml"

const xsiNamespace = "http://www.w3.org/2001/XMLSchema-instance"

type document struct {
	XMLName             xml.Name `xml:"STBLXMLFile"`
	FallbackLanguage    int      `xml:"FallbackLanguage"`
	STBLGroup           uint32   `xml:"STBLGroup"`
	STBLInstance        uint64   `xml:"STBLInstance"`
	STBLName            string   `xml:"STBLName" validate:"required"`
	BuildIdentifiers    bool     `xml:"BuildIdentifiers"`
	IdentifiersGroup    uint32   `xml:"IdentifiersGroup"`
	IdentifiersInstance uint64   `xml:"IdentifiersInstance"`
	IdentifiersName     string   `xml:"IdentifiersName" validate:"required_if=BuildIdentifiers true"`
	IdentifiersClass    string   `xml:"IdentifiersClass,omitempty"`
	Entries             []entry  `xml:"Entries>STBLXMLEntry" validate:"dive"`
}

type entry struct {
	Identifier string `xml:"Identifier" validate:"required"`
	Key        uint32 `xml:"Key"`
	Texts      []text `xml:",any"`
}

// text is one per-language element, named by the language identifier.
type text struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Value   string     `xml:",chardata"`
}

func (t text) isNil() bool {
	for _, attr := range t.Attrs {
		if attr.Name.Local != "nil" {
			continue
		}
		if attr.Name.Space == xsiNamespace || attr.Name.Space == "xsi" {
			return attr.Value == "true" || attr.Value == "1"
		}
	}
	return false
}
