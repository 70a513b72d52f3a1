package marc21

import (
	"encoding/json"
	"errors"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

///////////////////////////////////////////////////////////////////////////////
// References
///////////////////////////////////////////////////////////////////////////////

// FieldRef identifies a datafield by tag and indicators.
type FieldRef struct {
	Tag  string
	Ind1 string
	Ind2 string
}

// SubfieldRef identifies a subfield by code and expected text.
type SubfieldRef struct {
	Code  string
	Value string
}

///////////////////////////////////////////////////////////////////////////////
// Metadata Document
///////////////////////////////////////////////////////////////////////////////

// Metadata is a mutable MARC21 record. The element tree is the sole
// source of truth; the XML string and mij projection are recomputed on
// every read and never cached. A Metadata instance must not be shared
// across goroutines; give each goroutine its own.
type Metadata struct {
	root *etree.Element
	id   uuid.UUID
	log  *zap.Logger
}

// MetadataOpts configures a new Metadata document.
type MetadataOpts struct {
	// Logger receives mutation and validation events. Defaults to a nop
	// logger.
	Logger *zap.Logger
}

// NewMetadata creates an empty record: a MARC21 slim root holding a
// single leader set to the placeholder value and no fields.
func NewMetadata(opts MetadataOpts) *Metadata {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	id := uuid.New()
	m := &Metadata{
		root: newRecordRoot(),
		id:   id,
		log:  logger.With(zap.String("metadata_id", id.String())),
	}
	leader := m.root.CreateElement(elemLeader)
	leader.SetText(LeaderPlaceholder)
	return m
}

// Tree exposes the backing element tree.
func (m *Metadata) Tree() *etree.Element {
	return m.root
}

// Load replaces the backing tree wholesale with a caller-supplied one.
// No validation happens here; call Validate separately.
func (m *Metadata) Load(root *etree.Element) {
	m.root = root
	m.log.Debug("replaced backing tree")
}

// LoadRecord replaces the backing tree with one built from a mij
// projection, the reverse of JSON.
func (m *Metadata) LoadRecord(rec *Record) {
	m.root = rec.Tree()
	m.log.Debug("replaced backing tree from projection")
}

// SetXML parses an XML string and replaces the backing tree. Malformed
// input fails with a ParseError and leaves the document untouched.
func (m *Metadata) SetXML(s string) error {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(s); err != nil {
		return ParseError{Err: err}
	}
	root := doc.Root()
	if root == nil {
		return ParseError{Err: errors.New("document has no root element")}
	}
	m.root = root
	m.log.Debug("replaced backing tree from XML string")
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// Mutation
///////////////////////////////////////////////////////////////////////////////

// SetLeader overwrites the leader text. Every leader node is rewritten,
// in case the single-leader invariant was violated by a loaded tree.
func (m *Metadata) SetLeader(value string) {
	for _, leader := range m.root.ChildElements() {
		if leader.Tag == elemLeader {
			leader.SetText(value)
		}
	}
	m.log.Debug("set leader", zap.String("leader", value))
}

// AddControlField appends a new controlfield node under the root. It
// always appends, even when the tag already exists; the projection then
// shows the last value for the tag.
func (m *Metadata) AddControlField(tag, value string) {
	cf := m.root.CreateElement(elemControlfield)
	cf.CreateAttr(attrTag, tag)
	cf.SetText(value)
	m.log.Debug("appended controlfield", zap.String("tag", tag))
}

// AddField appends a new datafield with a single subfield under the
// root, unconditionally. Duplicate tag/indicator/code/value combinations
// accumulate. Empty indicators resolve to a space.
func (m *Metadata) AddField(tag, ind1, ind2, code, value string) {
	ind1, ind2 = defaultIndicator(ind1), defaultIndicator(ind2)

	df := m.root.CreateElement(elemDatafield)
	df.CreateAttr(attrTag, tag)
	df.CreateAttr(attrInd1, ind1)
	df.CreateAttr(attrInd2, ind2)
	sf := df.CreateElement(elemSubfield)
	sf.CreateAttr(attrCode, code)
	sf.SetText(value)
	m.log.Debug("appended datafield", zap.String("tag", tag), zap.String("code", code))
}

// AddUniqueField appends a datafield+subfield only when no subfield with
// the given code exists yet. The existence probe is document-wide by
// code, not scoped to the matched datafield: a subfield with the same
// code under a different tag suppresses insertion. Known quirk, kept for
// compatibility with existing consumers.
func (m *Metadata) AddUniqueField(tag, ind1, ind2, code, value string) {
	ind1, ind2 = defaultIndicator(ind1), defaultIndicator(ind2)

	var df *etree.Element
	if matches := m.findDataFields(tag, ind1, ind2); len(matches) > 0 {
		df = matches[0]
	} else {
		df = etree.NewElement(elemDatafield)
		df.CreateAttr(attrTag, tag)
		df.CreateAttr(attrInd1, ind1)
		df.CreateAttr(attrInd2, ind2)
	}

	if len(m.findSubfields(code)) == 0 {
		sf := etree.NewElement(elemSubfield)
		sf.CreateAttr(attrCode, code)
		sf.SetText(value)
		df.AddChild(sf)
		// AddChild moves an already attached datafield to the end
		m.root.AddChild(df)
		m.log.Debug("emplaced unique datafield", zap.String("tag", tag), zap.String("code", code))
	}
}

///////////////////////////////////////////////////////////////////////////////
// Containment Query
///////////////////////////////////////////////////////////////////////////////

// Contains reports whether a datafield matching field exists holding a
// subfield with sub.Code whose text equals sub.Value. Only the first
// matching subfield in document order is compared.
func (m *Metadata) Contains(field FieldRef, sub SubfieldRef) bool {
	for _, df := range m.findDataFields(field.Tag, defaultIndicator(field.Ind1), defaultIndicator(field.Ind2)) {
		for _, sf := range df.ChildElements() {
			if sf.Tag == elemSubfield && sf.SelectAttrValue(attrCode, "") == sub.Code {
				return sf.Text() == sub.Value
			}
		}
	}
	return false
}

// findDataFields returns top-level datafields matching tag and both
// indicators, in document order.
func (m *Metadata) findDataFields(tag, ind1, ind2 string) []*etree.Element {
	var matches []*etree.Element
	for _, el := range m.root.ChildElements() {
		if el.Tag != elemDatafield {
			continue
		}
		if el.SelectAttrValue(attrTag, "") == tag &&
			el.SelectAttrValue(attrInd1, "") == ind1 &&
			el.SelectAttrValue(attrInd2, "") == ind2 {
			matches = append(matches, el)
		}
	}
	return matches
}

// findSubfields returns every subfield in the document carrying code,
// regardless of the enclosing datafield.
func (m *Metadata) findSubfields(code string) []*etree.Element {
	var matches []*etree.Element
	for _, df := range m.root.ChildElements() {
		if df.Tag != elemDatafield {
			continue
		}
		for _, sf := range df.ChildElements() {
			if sf.Tag == elemSubfield && sf.SelectAttrValue(attrCode, "") == code {
				matches = append(matches, sf)
			}
		}
	}
	return matches
}

///////////////////////////////////////////////////////////////////////////////
// Views
///////////////////////////////////////////////////////////////////////////////

// Envelope wraps the projection under the "metadata" key, the shape the
// service layer embeds into its own record structure.
type Envelope struct {
	Metadata *Record `json:"metadata"`
}

// XML serializes the current tree to a pretty-printed XML string. The
// string is recomputed on every call, so it always reflects the tree's
// current state.
func (m *Metadata) XML() string {
	doc := etree.NewDocument()
	doc.SetRoot(m.root.Copy())
	doc.Indent(xmlIndent)
	s, err := doc.WriteToString()
	if err != nil {
		m.log.Warn("failed to serialize record tree", zap.Error(err))
		return ""
	}
	return s
}

// JSON derives the mij projection of the current tree, wrapped in an
// Envelope. The projection is recomputed with a fresh visitor on every
// call and is never a second source of truth.
func (m *Metadata) JSON() (*Envelope, error) {
	rec, err := Convert(m.root)
	if err != nil {
		return nil, err
	}
	return &Envelope{Metadata: rec}, nil
}

// JSONString marshals the Envelope to a JSON string, tags in document
// order.
func (m *Metadata) JSONString() (string, error) {
	env, err := m.JSON()
	if err != nil {
		return "", err
	}
	raw, err := json.Marshal(env)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// JSONPath evaluates a gjson path against the marshaled projection,
// e.g. "metadata.fields.245.0.subfields.a.0".
func (m *Metadata) JSONPath(path string) (gjson.Result, error) {
	s, err := m.JSONString()
	if err != nil {
		return gjson.Result{}, err
	}
	return gjson.Get(s, path), nil
}

// Validate checks the current XML form against the bundled MARC21 slim
// schema. A non-conforming document is not an error condition: the
// result is a plain boolean and the document is left untouched.
func (m *Metadata) Validate() bool {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(m.XML()); err != nil {
		m.log.Warn("record XML does not reparse", zap.Error(err))
		return false
	}
	if err := marc21Schema.ValidateRecord(doc.Root()); err != nil {
		m.log.Warn("record failed schema validation", zap.Error(err))
		return false
	}
	return true
}

// defaultIndicator resolves an unset indicator to a literal space.
func defaultIndicator(ind string) string {
	if ind == "" {
		return IndicatorDefault
	}
	return ind
}
