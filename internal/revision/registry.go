package revision

import (
	"strings"

	"github.com/eduhubvn/moderation-api/internal/models"
)

// EntityConfig is the static per-entity-type configuration the engine runs on.
// Everything entity-specific lives here; the diff, normalization and approval
// code is generic.
type EntityConfig struct {
	// Path is the URL segment on the upstream moderation backend.
	Path string
	// PairKey is the wrapper key used by the legacy "{degree, updatedDegree}"
	// payload shape. Empty when the entity never uses that shape.
	PairKey string
	// SubTypeField is the record key the sub-type queue filter matches on.
	SubTypeField string
	// SearchFields are record keys included in the free-text queue filter.
	SearchFields []string
	// RefreshesSubmitterProfile triggers a best-effort submitter profile
	// refetch after an approval.
	RefreshesSubmitterProfile bool
	Descriptors               []FieldDescriptor
}

func renderDocumentLink(interface{}) string { return "View document" }

func renderCurrency(value interface{}) string {
	return canonicalValue(value) + " VND"
}

var registry = map[models.EntityType]EntityConfig{
	models.EntityDegree: {
		Path:                      "degrees",
		PairKey:                   "degree",
		SubTypeField:              "level",
		SearchFields:              []string{"referenceId", "name", "major", "institution"},
		RefreshesSubmitterProfile: true,
		Descriptors: []FieldDescriptor{
			{Label: "Reference ID", Key: "referenceId"},
			{Label: "Degree name", Key: "name"},
			{Label: "Major", Key: "major"},
			{Label: "Institution", Key: "institution"},
			{Label: "Level", Key: "level"},
			{Label: "Start year", Key: "startYear"},
			{Label: "Graduation year", Key: "graduationYear"},
			{Label: "Document", Key: "url", Render: renderDocumentLink},
		},
	},
	models.EntityCertification: {
		Path:                      "certifications",
		PairKey:                   "certification",
		SubTypeField:              "level",
		SearchFields:              []string{"referenceId", "name", "issuedBy"},
		RefreshesSubmitterProfile: true,
		Descriptors: []FieldDescriptor{
			{Label: "Reference ID", Key: "referenceId"},
			{Label: "Certification name", Key: "name"},
			{Label: "Issued by", Key: "issuedBy"},
			{Label: "Level", Key: "level"},
			{Label: "Issue date", Key: "issueDate"},
			{Label: "Expiry date", Key: "expiryDate"},
			{Label: "Certificate", Key: "certificateUrl", Render: renderDocumentLink},
		},
	},
	models.EntityOwnedCourse: {
		Path:                      "owned-courses",
		PairKey:                   "course",
		SubTypeField:              "courseType",
		SearchFields:              []string{"title", "topic"},
		RefreshesSubmitterProfile: true,
		Descriptors: []FieldDescriptor{
			{Label: "Title", Key: "title"},
			{Label: "Topic", Key: "topic"},
			{Label: "Course type", Key: "courseType"},
			{Label: "Scale", Key: "scale"},
			{Label: "Level", Key: "level"},
			{Label: "Price", Key: "price", Render: renderCurrency},
			{Label: "Start date", Key: "startDate"},
			{Label: "End date", Key: "endDate"},
			{Label: "Content", Key: "contentUrl", Render: renderDocumentLink},
		},
	},
	models.EntityAttendedCourse: {
		Path:                      "attended-courses",
		PairKey:                   "attendedCourse",
		SubTypeField:              "courseType",
		SearchFields:              []string{"title", "organizer"},
		RefreshesSubmitterProfile: true,
		Descriptors: []FieldDescriptor{
			{Label: "Title", Key: "title"},
			{Label: "Organizer", Key: "organizer"},
			{Label: "Course type", Key: "courseType"},
			{Label: "Scale", Key: "scale"},
			{Label: "Hours", Key: "numberOfHours"},
			{Label: "Start date", Key: "startDate"},
			{Label: "End date", Key: "endDate"},
			{Label: "Certificate", Key: "courseUrl", Render: renderDocumentLink},
		},
	},
	models.EntityResearchProject: {
		Path:                      "research-projects",
		PairKey:                   "researchProject",
		SubTypeField:              "scale",
		SearchFields:              []string{"title", "researchArea", "foundingSource"},
		RefreshesSubmitterProfile: true,
		Descriptors: []FieldDescriptor{
			{Label: "Title", Key: "title"},
			{Label: "Research area", Key: "researchArea"},
			{Label: "Scale", Key: "scale"},
			{Label: "Role", Key: "roleInProject"},
			{Label: "Funding amount", Key: "foundingAmount", Render: renderCurrency},
			{Label: "Funding source", Key: "foundingSource"},
			{Label: "Start date", Key: "startDate"},
			{Label: "End date", Key: "endDate"},
			{Label: "Publication", Key: "publishedUrl", Render: renderDocumentLink},
		},
	},
	models.EntityInstitution: {
		Path:         "institutions",
		PairKey:      "institution",
		SubTypeField: "institutionType",
		SearchFields: []string{"businessRegistrationNumber", "institutionName", "representativeName"},
		Descriptors: []FieldDescriptor{
			{Label: "Registration number", Key: "businessRegistrationNumber"},
			{Label: "Institution name", Key: "institutionName"},
			{Label: "Institution type", Key: "institutionType"},
			{Label: "Representative", Key: "representativeName"},
			{Label: "Phone", Key: "phoneNumber"},
			{Label: "Website", Key: "website"},
			{Label: "Address", Key: "address"},
			{Label: "Established year", Key: "establishedYear"},
			{Label: "Logo", Key: "logoUrl", Render: renderDocumentLink},
		},
	},
	models.EntityPartner: {
		Path:         "partners",
		PairKey:      "partner",
		SubTypeField: "industry",
		SearchFields: []string{"organizationName", "industry", "representativeName"},
		Descriptors: []FieldDescriptor{
			{Label: "Organization name", Key: "organizationName"},
			{Label: "Industry", Key: "industry"},
			{Label: "Representative", Key: "representativeName"},
			{Label: "Phone", Key: "phoneNumber"},
			{Label: "Website", Key: "website"},
			{Label: "Address", Key: "address"},
			{Label: "Established year", Key: "establishedYear"},
			{Label: "Logo", Key: "logoUrl", Render: renderDocumentLink},
		},
	},
}

// Config returns the static configuration for an entity type.
func Config(entity models.EntityType) (EntityConfig, bool) {
	cfg, ok := registry[entity]
	return cfg, ok
}

// Describe returns the descriptor table for an entity type. Unknown types
// yield an empty table rather than an error; diff rendering is a convenience,
// not a correctness-critical path.
func Describe(entity models.EntityType) []FieldDescriptor {
	cfg, ok := registry[entity]
	if !ok {
		return nil
	}
	return cfg.Descriptors
}

// UpdatedPairKey derives the "updatedDegree" style wrapper key from a pair key.
func UpdatedPairKey(pairKey string) string {
	if pairKey == "" {
		return ""
	}
	return "updated" + strings.ToUpper(pairKey[:1]) + pairKey[1:]
}
