package marc21

// ResourceType classifies the kind of work a record describes.
type ResourceType string

// constants for the known resource types
const (
	ResourceTypeHSMaster  ResourceType = "HS-MASTER"
	ResourceTypeHSDiss    ResourceType = "HS-DISS"
	ResourceTypeCatalogue ResourceType = "CATALOGUE"
	ResourceTypeChapter   ResourceType = "CHAPTER"
)

// Valid reports whether rt is one of the known resource types.
func (rt ResourceType) Valid() bool {
	switch rt {
	case ResourceTypeHSMaster, ResourceTypeHSDiss, ResourceTypeCatalogue, ResourceTypeChapter:
		return true
	}
	return false
}
