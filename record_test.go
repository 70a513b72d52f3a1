package marc21

import (
	"encoding/json"
	"testing"

	"github.com/tidwall/gjson"
)

func marshalRecord(r *Record) (string, error) {
	raw, err := json.Marshal(r)
	return string(raw), err
}

func TestRecordMarshalShape(t *testing.T) {
	rec := NewRecord()
	rec.Leader = "00000nam a2200000zca4500"
	rec.setControl("001", "12345")

	entry := NewDataField("1", "0")
	entry.AppendSubfield("a", "Title")
	rec.appendData("245", entry)

	s, err := marshalRecord(rec)
	if err != nil {
		t.Fatalf("Expected record to marshal, got: %v", err)
	}

	if got := gjson.Get(s, "leader").String(); got != "00000nam a2200000zca4500" {
		t.Errorf("Expected leader in output, got %q", got)
	}
	if got := gjson.Get(s, "fields.001").String(); got != "12345" {
		t.Errorf("Expected control field as bare string, got %q", got)
	}
	if got := gjson.Get(s, "fields.245.0.ind1").String(); got != "1" {
		t.Errorf("Expected ind1 on first 245 entry, got %q", got)
	}
	if got := gjson.Get(s, "fields.245.0.subfields.a.0").String(); got != "Title" {
		t.Errorf("Expected subfield value sequence, got %q", got)
	}
}

func TestRecordMarshalEmptyFields(t *testing.T) {
	rec := NewRecord()

	s, err := marshalRecord(rec)
	if err != nil {
		t.Fatalf("Expected record to marshal, got: %v", err)
	}
	if !gjson.Get(s, "fields").IsObject() {
		t.Errorf("Expected empty fields object, got %s", s)
	}
}

func TestRecordControlOverwriteKeepsPosition(t *testing.T) {
	rec := NewRecord()
	rec.setControl("001", "first")
	rec.setControl("005", "stamp")
	rec.setControl("001", "second")

	if rec.Fields.Len() != 2 {
		t.Fatalf("Expected two slots, got %d", rec.Fields.Len())
	}
	if rec.Fields.Oldest().Key != "001" {
		t.Errorf("Expected 001 to keep its first-seen position")
	}
	value, _ := rec.ControlField("001")
	if value != "second" {
		t.Errorf("Expected last write to win, got %q", value)
	}
}

func TestRecordTreeRoundTrip(t *testing.T) {
	rec := NewRecord()
	rec.Leader = "00000nam a2200000zca4500"
	rec.setControl("001", "12345")

	entry := NewDataField("1", "_")
	entry.AppendSubfield("a", "Title")
	entry.AppendSubfield("b", "Subtitle")
	rec.appendData("245", entry)

	root := rec.Tree()
	if root.Tag != "record" {
		t.Fatalf("Expected a record root, got %q", root.Tag)
	}

	back, err := Convert(root)
	if err != nil {
		t.Fatalf("Expected rebuilt tree to convert, got: %v", err)
	}

	want, err := marshalRecord(rec)
	if err != nil {
		t.Fatalf("Expected projection to marshal, got: %v", err)
	}
	got, err := marshalRecord(back)
	if err != nil {
		t.Fatalf("Expected projection to marshal, got: %v", err)
	}
	if want != got {
		t.Errorf("Expected round trip to be lossless:\nwant %s\ngot  %s", want, got)
	}
}

func TestRecordTreeDenormalizesIndicators(t *testing.T) {
	rec := NewRecord()
	entry := NewDataField("_", "0")
	entry.AppendSubfield("a", "X")
	rec.appendData("245", entry)

	root := rec.Tree()
	df := root.FindElement("datafield")
	if df == nil {
		t.Fatal("Expected a datafield child")
	}
	if got := df.SelectAttrValue("ind1", ""); got != " " {
		t.Errorf("Expected underscore to become a literal space, got %q", got)
	}
	if got := df.SelectAttrValue("ind2", ""); got != "0" {
		t.Errorf("Expected ind2 to pass through, got %q", got)
	}
}

func TestDataFieldAppendSubfieldOrder(t *testing.T) {
	entry := NewDataField(" ", " ")
	entry.AppendSubfield("b", "two")
	entry.AppendSubfield("a", "one")
	entry.AppendSubfield("b", "three")

	first := entry.Subfields.Oldest()
	if first.Key != "b" {
		t.Errorf("Expected first-seen code order, got %q first", first.Key)
	}
	values, _ := entry.Subfields.Get("b")
	if len(values) != 2 || values[1] != "three" {
		t.Errorf("Expected repeated code to accumulate in order, got %v", values)
	}
}
