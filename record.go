package marc21

import (
	"strings"

	"github.com/beevik/etree"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

///////////////////////////////////////////////////////////////////////////////
// Field Values
///////////////////////////////////////////////////////////////////////////////

// FieldValue is the value stored under a tag in a Record's field mapping.
// A tag holds either a ControlValue (control fields are bare strings in
// the mij form) or a DataFieldList.
type FieldValue interface {
	fieldValue()
}

// ControlValue is the text of a control field.
type ControlValue string

func (ControlValue) fieldValue() {}

// DataFieldList is the ordered sequence of data field entries sharing a
// tag. Entries preserve insertion order.
type DataFieldList []*DataField

func (DataFieldList) fieldValue() {}

// DataField is one data field entry in the mij projection. Indicators
// carry the underscore placeholder where the XML has a literal space.
// Subfield codes map to the sequence of values seen for that code, in
// document order.
type DataField struct {
	Ind1      string                                   `json:"ind1"`
	Ind2      string                                   `json:"ind2"`
	Subfields *orderedmap.OrderedMap[string, []string] `json:"subfields"`
}

// NewDataField returns an entry with the given indicators and an empty
// subfield mapping.
func NewDataField(ind1, ind2 string) *DataField {
	return &DataField{
		Ind1:      ind1,
		Ind2:      ind2,
		Subfields: orderedmap.New[string, []string](),
	}
}

// AppendSubfield adds a value under code, creating the sequence on first
// use.
func (df *DataField) AppendSubfield(code, value string) {
	values, _ := df.Subfields.Get(code)
	df.Subfields.Set(code, append(values, value))
}

///////////////////////////////////////////////////////////////////////////////
// Record
///////////////////////////////////////////////////////////////////////////////

// Record is the nested-mapping ("mij") projection of a MARC21 record. It
// is a derived view: re-deriving it from an unchanged tree yields an
// identical Record, and mutating it never changes document state.
//
// Fields preserves first-seen tag order, so the marshaled JSON keeps
// tags in document order.
type Record struct {
	Leader string                                     `json:"leader"`
	Fields *orderedmap.OrderedMap[string, FieldValue] `json:"fields"`
}

// NewRecord returns an empty projection.
func NewRecord() *Record {
	return &Record{
		Fields: orderedmap.New[string, FieldValue](),
	}
}

// setControl stores a control field value under tag. Last write wins on a
// duplicate tag; the tag keeps its original position in the mapping.
func (r *Record) setControl(tag, value string) {
	r.Fields.Set(tag, ControlValue(value))
}

// appendData appends a data field entry to the sequence under tag,
// creating the sequence on first use.
func (r *Record) appendData(tag string, df *DataField) {
	existing, _ := r.Fields.Get(tag)
	list, ok := existing.(DataFieldList)
	if !ok {
		list = nil
	}
	r.Fields.Set(tag, append(list, df))
}

// ControlField returns the control field value stored under tag.
func (r *Record) ControlField(tag string) (string, bool) {
	v, ok := r.Fields.Get(tag)
	if !ok {
		return "", false
	}
	cv, ok := v.(ControlValue)
	return string(cv), ok
}

// DataFields returns the data field entries stored under tag, or nil.
func (r *Record) DataFields(tag string) DataFieldList {
	v, ok := r.Fields.Get(tag)
	if !ok {
		return nil
	}
	list, _ := v.(DataFieldList)
	return list
}

///////////////////////////////////////////////////////////////////////////////
// Reverse Projection
///////////////////////////////////////////////////////////////////////////////

// Tree builds a MARC21 slim record tree from the projection, the reverse
// direction of Convert. Indicators are denormalized: the underscore
// placeholder becomes a literal space again. Control fields come first,
// then data fields, both in mapping order.
func (r *Record) Tree() *etree.Element {
	root := newRecordRoot()

	leader := root.CreateElement(elemLeader)
	leader.SetText(r.Leader)

	for pair := r.Fields.Oldest(); pair != nil; pair = pair.Next() {
		cv, ok := pair.Value.(ControlValue)
		if !ok {
			continue
		}
		cf := root.CreateElement(elemControlfield)
		cf.CreateAttr(attrTag, pair.Key)
		cf.SetText(string(cv))
	}

	for pair := r.Fields.Oldest(); pair != nil; pair = pair.Next() {
		list, ok := pair.Value.(DataFieldList)
		if !ok {
			continue
		}
		for _, entry := range list {
			df := root.CreateElement(elemDatafield)
			df.CreateAttr(attrTag, pair.Key)
			df.CreateAttr(attrInd1, denormalizeIndicator(entry.Ind1))
			df.CreateAttr(attrInd2, denormalizeIndicator(entry.Ind2))
			for sp := entry.Subfields.Oldest(); sp != nil; sp = sp.Next() {
				for _, value := range sp.Value {
					sf := df.CreateElement(elemSubfield)
					sf.CreateAttr(attrCode, sp.Key)
					sf.SetText(value)
				}
			}
		}
	}

	return root
}

// newRecordRoot creates a bare record element with the MARC21 slim
// namespace and the Bibliographic type attribute.
func newRecordRoot() *etree.Element {
	root := etree.NewElement(elemRecord)
	root.CreateAttr("xmlns", Namespace)
	root.CreateAttr(attrType, RecordTypeBibliographic)
	return root
}

// normalizeIndicator maps a literal space to the projection placeholder.
func normalizeIndicator(ind string) string {
	return strings.ReplaceAll(ind, IndicatorDefault, IndicatorPlaceholder)
}

// denormalizeIndicator maps the projection placeholder back to a space.
func denormalizeIndicator(ind string) string {
	return strings.ReplaceAll(ind, IndicatorPlaceholder, IndicatorDefault)
}
