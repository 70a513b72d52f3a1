// Package marc21 provides an in-memory MARC21 bibliographic record with
// a bidirectional XML / JSON converter and a small mutation API.
//
// A record is held as a MARC21 slim element tree, and the tree is the
// only source of truth. Two views are derived from it on demand:
//   - The XML string form, a pretty-printed serialization of the tree.
//   - The mij ("MARC-in-JSON"-like) nested mapping form:
//     {"leader": string, "fields": {tag: string | [entry, ...]}}
//     where a control field tag maps to a bare string and a data field
//     tag maps to an ordered sequence of {ind1, ind2, subfields}
//     entries.
//
// Both views are recomputed on every read and never cached, so a read
// after a mutation always reflects the current tree. Mutating a derived
// view never changes document state.
//
// To build a record, create a Metadata document and emplace fields:
//
//	m := marc21.NewMetadata(marc21.MetadataOpts{})
//	m.SetLeader("00000nam a2200000zca4500")
//	m.AddControlField("001", "990079190002203331")
//	m.AddField("245", "1", "0", "a", "The Mathematical Theory of Communication")
//	xml := m.XML()
//	env, err := m.JSON()
//
// Documents can also be loaded wholesale, either from an XML string
// (SetXML), from an existing element tree (Load), or from a mij
// projection (LoadRecord). Loading performs no validation; Validate
// checks the document against the bundled MARC21 slim XML Schema and
// reports conformance as a plain boolean.
//
// Indicators holding a literal space appear as the underscore
// placeholder "_" in the mapping form only; the canonical XML keeps the
// real space.
//
// The conversion from tree to mapping is a strict visitor over the five
// MARC21 slim node kinds (record, leader, controlfield, datafield,
// subfield). An element with no rule fails the whole conversion with an
// UnsupportedElementError rather than being skipped, since a dropped
// element would silently corrupt downstream data.
//
// A Metadata instance owns its tree exclusively and is not safe for
// concurrent use; callers running in parallel must give each goroutine
// its own document.
//
// This package is the core of a larger record-management plugin. HTTP
// routing, persistence, permissions and UI serialization live in the
// surrounding service layer, which talks to this package only through
// the Metadata operations and the MetadataValue holder.
package marc21
