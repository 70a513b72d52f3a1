package marc21

// constants for the MARC21 slim XML dialect
const (
	// Namespace is the MARC21 slim XML namespace declared on every
	// record root.
	Namespace = "http://www.loc.gov/MARC21/slim"

	// LeaderPlaceholder is the leader value a freshly created record
	// starts with, before a caller emplaces a real one.
	LeaderPlaceholder = "00000nam a2200000zca4500"

	// IndicatorDefault is the indicator value used when a caller (or the
	// source XML) leaves an indicator empty.
	IndicatorDefault = " "

	// IndicatorPlaceholder replaces a literal space indicator in the
	// mapping projection only. The canonical XML keeps the real space.
	IndicatorPlaceholder = "_"
)

// constants for record type attribute values
const (
	RecordTypeBibliographic  = "Bibliographic"
	RecordTypeAuthority      = "Authority"
	RecordTypeHoldings       = "Holdings"
	RecordTypeClassification = "Classification"
	RecordTypeCommunity      = "Community"
)

// constants for element local names handled by the visitor
const (
	elemRecord       = "record"
	elemLeader       = "leader"
	elemControlfield = "controlfield"
	elemDatafield    = "datafield"
	elemSubfield     = "subfield"
)

// constants for attribute names carried by field elements
const (
	attrTag  = "tag"
	attrInd1 = "ind1"
	attrInd2 = "ind2"
	attrCode = "code"
	attrType = "type"
)

// xmlIndent is the indent width used by the pretty printer.
const xmlIndent = 4
