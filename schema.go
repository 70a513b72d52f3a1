package marc21

import (
	_ "embed"
	"fmt"
	"regexp"

	"github.com/beevik/etree"
)

///////////////////////////////////////////////////////////////////////////////
// Schema Asset
///////////////////////////////////////////////////////////////////////////////

// The MARC21 slim schema published by the Library of Congress, bundled
// with the module. It is the single authority for the lexical patterns
// and element sequence enforced below.
//
//go:embed schema/MARC21slim.xsd
var marc21SlimXSD []byte

///////////////////////////////////////////////////////////////////////////////
// Schema
///////////////////////////////////////////////////////////////////////////////

// Schema checks record trees against the constraints of the MARC21 slim
// XML Schema: element sequence, required attributes, and the simpleType
// patterns for leader, tags, indicators and subfield codes. Patterns are
// compiled from the bundled XSD, not hardcoded, so the schema file stays
// authoritative.
type Schema struct {
	leader       *regexp.Regexp
	controlTag   *regexp.Regexp
	tag          *regexp.Regexp
	indicator    *regexp.Regexp
	subfieldCode *regexp.Regexp
	recordTypes  map[string]struct{}
}

// LoadSchema parses an XSD in the shape of MARC21slim.xsd and compiles
// its patterns.
func LoadSchema(raw []byte) (*Schema, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}

	patterns := make(map[string]*regexp.Regexp)
	enums := make(map[string][]string)
	var perr error
	walkElements(doc.Root(), func(el *etree.Element) {
		if el.Tag != "simpleType" {
			return
		}
		name := el.SelectAttrValue("name", "")
		if name == "" {
			return
		}
		walkElements(el, func(facet *etree.Element) {
			switch facet.Tag {
			case "pattern":
				expr := facet.SelectAttrValue("value", "")
				// XSD patterns are implicitly anchored
				re, err := regexp.Compile(`^(?:` + expr + `)$`)
				if err != nil {
					if perr == nil {
						perr = fmt.Errorf("bad pattern for simpleType %q: %w", name, err)
					}
					return
				}
				patterns[name] = re
			case "enumeration":
				enums[name] = append(enums[name], facet.SelectAttrValue("value", ""))
			}
		})
	})
	if perr != nil {
		return nil, perr
	}

	s := &Schema{
		leader:       patterns["leaderDataType"],
		controlTag:   patterns["controltagDataType"],
		tag:          patterns["tagDataType"],
		indicator:    patterns["indicatorDataType"],
		subfieldCode: patterns["subfieldcodeDataType"],
		recordTypes:  make(map[string]struct{}),
	}
	if s.leader == nil || s.controlTag == nil || s.tag == nil || s.indicator == nil || s.subfieldCode == nil {
		return nil, fmt.Errorf("schema is missing one of the required simpleType patterns")
	}
	for _, v := range enums["recordTypeType"] {
		s.recordTypes[v] = struct{}{}
	}
	return s, nil
}

// walkElements calls fn on every element below el, depth-first.
func walkElements(el *etree.Element, fn func(*etree.Element)) {
	for _, child := range el.ChildElements() {
		fn(child)
		walkElements(child, fn)
	}
}

// ValidateRecord checks a record tree against the schema. The returned
// error carries the first violation found; nil means the tree conforms.
func (s *Schema) ValidateRecord(root *etree.Element) error {
	if root == nil {
		return fmt.Errorf("no record element")
	}
	if root.Tag != elemRecord {
		return fmt.Errorf("root element is %q, want %q", root.Tag, elemRecord)
	}
	if ns := root.NamespaceURI(); ns != Namespace {
		return fmt.Errorf("record namespace is %q, want %q", ns, Namespace)
	}
	if rt := root.SelectAttrValue(attrType, ""); rt != "" {
		if _, ok := s.recordTypes[rt]; !ok {
			return fmt.Errorf("unknown record type %q", rt)
		}
	}

	// recordType is a sequence: one leader, then controlfields, then
	// datafields. An empty record is allowed.
	children := root.ChildElements()
	if len(children) == 0 {
		return nil
	}
	if children[0].Tag != elemLeader {
		return fmt.Errorf("first element is %q, want %q", children[0].Tag, elemLeader)
	}
	if !s.leader.MatchString(children[0].Text()) {
		return fmt.Errorf("leader %q does not match the leader pattern", children[0].Text())
	}

	seenDatafield := false
	for _, el := range children[1:] {
		if ns := el.NamespaceURI(); ns != Namespace {
			return fmt.Errorf("element %q namespace is %q, want %q", el.Tag, ns, Namespace)
		}
		switch el.Tag {
		case elemControlfield:
			if seenDatafield {
				return fmt.Errorf("controlfield after datafield breaks the record sequence")
			}
			if err := s.validateControlfield(el); err != nil {
				return err
			}
		case elemDatafield:
			seenDatafield = true
			if err := s.validateDatafield(el); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unexpected element %q in record", el.Tag)
		}
	}
	return nil
}

func (s *Schema) validateControlfield(el *etree.Element) error {
	tag := el.SelectAttrValue(attrTag, "")
	if !s.controlTag.MatchString(tag) {
		return fmt.Errorf("controlfield tag %q does not match the control tag pattern", tag)
	}
	if len(el.ChildElements()) != 0 {
		return fmt.Errorf("controlfield %q must not have element children", tag)
	}
	return nil
}

func (s *Schema) validateDatafield(el *etree.Element) error {
	tag := el.SelectAttrValue(attrTag, "")
	if !s.tag.MatchString(tag) {
		return fmt.Errorf("datafield tag %q does not match the tag pattern", tag)
	}
	for _, ind := range []string{attrInd1, attrInd2} {
		attr := el.SelectAttr(ind)
		if attr == nil {
			return fmt.Errorf("datafield %q is missing required attribute %q", tag, ind)
		}
		if !s.indicator.MatchString(attr.Value) {
			return fmt.Errorf("datafield %q indicator %q=%q does not match the indicator pattern", tag, ind, attr.Value)
		}
	}

	subfields := el.ChildElements()
	if len(subfields) == 0 {
		return fmt.Errorf("datafield %q has no subfields", tag)
	}
	for _, sf := range subfields {
		if sf.Tag != elemSubfield {
			return fmt.Errorf("unexpected element %q in datafield %q", sf.Tag, tag)
		}
		code := sf.SelectAttrValue(attrCode, "")
		if !s.subfieldCode.MatchString(code) {
			return fmt.Errorf("subfield code %q in datafield %q does not match the code pattern", code, tag)
		}
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// Global Singleton and Package Functions
///////////////////////////////////////////////////////////////////////////////

var marc21Schema *Schema

func init() {
	var err error
	marc21Schema, err = LoadSchema(marc21SlimXSD)
	if err != nil {
		panic(fmt.Sprintf("Failed to load bundled MARC21 slim schema: %v", err))
	}
}

// DefaultSchema returns the schema loaded from the bundled
// MARC21slim.xsd.
func DefaultSchema() *Schema {
	return marc21Schema
}

// ValidateTree checks a record tree against the bundled schema.
func ValidateTree(root *etree.Element) error {
	return marc21Schema.ValidateRecord(root)
}
