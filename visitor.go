package marc21

import (
	"github.com/beevik/etree"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

///////////////////////////////////////////////////////////////////////////////
// Tree-to-Map Visitor
///////////////////////////////////////////////////////////////////////////////

// treeVisitor walks a MARC21 slim element tree depth-first and builds the
// mij projection. The visitor is single-use: subfields is transient
// per-traversal state, so each conversion gets a fresh instance.
type treeVisitor struct {
	record    *Record
	subfields *orderedmap.OrderedMap[string, []string]
}

// Convert turns a record-rooted MARC21 slim tree into its mij
// projection. The root must carry the local name "record"; any element
// below it with no dispatch rule fails the whole conversion with an
// UnsupportedElementError. No partial projection is ever returned.
func Convert(root *etree.Element) (*Record, error) {
	v := &treeVisitor{record: NewRecord()}
	if root.Tag != elemRecord {
		return nil, UnsupportedElementError{Local: root.Tag, Namespace: root.NamespaceURI()}
	}
	if err := v.visitChildren(root); err != nil {
		return nil, err
	}
	return v.record, nil
}

// visitChildren dispatches every child element in document order.
func (v *treeVisitor) visitChildren(node *etree.Element) error {
	for _, child := range node.ChildElements() {
		if err := v.process(child); err != nil {
			return err
		}
	}
	return nil
}

// process routes a node to its handler by local name. The default arm is
// a hard failure: silently dropping an unknown element would corrupt
// downstream data.
func (v *treeVisitor) process(node *etree.Element) error {
	switch node.Tag {
	case elemLeader:
		v.visitLeader(node)
		return nil
	case elemControlfield:
		v.visitControlfield(node)
		return nil
	case elemDatafield:
		return v.visitDatafield(node)
	case elemSubfield:
		return v.visitSubfield(node)
	default:
		return UnsupportedElementError{Local: node.Tag, Namespace: node.NamespaceURI()}
	}
}

// visitLeader captures the leader text verbatim. Last writer wins if the
// tree violates the single-leader invariant.
func (v *treeVisitor) visitLeader(node *etree.Element) {
	v.record.Leader = node.Text()
}

// visitControlfield stores the field text under its tag. A duplicate tag
// overwrites the earlier value.
func (v *treeVisitor) visitControlfield(node *etree.Element) {
	v.record.setControl(node.SelectAttrValue(attrTag, ""), node.Text())
}

// visitDatafield opens a fresh subfield accumulator, walks the subfield
// children, then appends the assembled entry under its tag.
func (v *treeVisitor) visitDatafield(node *etree.Element) error {
	v.subfields = orderedmap.New[string, []string]()
	if err := v.visitChildren(node); err != nil {
		return err
	}

	entry := &DataField{
		Ind1:      normalizeIndicator(node.SelectAttrValue(attrInd1, IndicatorDefault)),
		Ind2:      normalizeIndicator(node.SelectAttrValue(attrInd2, IndicatorDefault)),
		Subfields: v.subfields,
	}
	v.record.appendData(node.SelectAttrValue(attrTag, ""), entry)
	v.subfields = nil
	return nil
}

// visitSubfield appends the node text to the sequence for its code. A
// subfield is only meaningful inside a datafield; anywhere else it has
// no rule.
func (v *treeVisitor) visitSubfield(node *etree.Element) error {
	if v.subfields == nil {
		return UnsupportedElementError{Local: node.Tag, Namespace: node.NamespaceURI()}
	}
	code := node.SelectAttrValue(attrCode, "")
	values, _ := v.subfields.Get(code)
	v.subfields.Set(code, append(values, node.Text()))
	return nil
}
