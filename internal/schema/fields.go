package schema

// resourceTypeGeneralValues is shared by the resourceType field and the
// relatedIdentifiers.resourceTypeGeneral subfield.
var resourceTypeGeneralValues = []string{
	"Audiovisual", "Book", "BookChapter", "Collection",
	"ComputationalNotebook", "ConferencePaper", "ConferenceProceeding",
	"Dataset", "Dissertation", "Event", "Image", "InteractiveResource",
	"Journal", "JournalArticle", "Model", "OutputManagementPlan",
	"PeerReview", "PhysicalObject", "Preprint", "Report", "Service",
	"Software", "Sound", "Standard", "Text", "Workflow", "Other", "Unknown",
}

var nameIdentifierSchemes = []string{"ORCID", "ROR", "ISNI"}

var affiliationIdentifierSchemes = []string{"ROR", "GRID", "ISNI"}

// personSubfields is the shared subfield taxonomy for creators and
// contributors: name type, name identifiers with their scheme, and
// affiliations with their identifier and scheme. Scheme subfields are only
// observed when the corresponding identifier is present.
func personSubfields(extra ...SubfieldSpec) []SubfieldSpec {
	subs := append([]SubfieldSpec(nil), extra...)
	return append(subs,
		SubfieldSpec{
			Name:    "nameType",
			Values:  []string{"Personal", "Organizational"},
			Extract: scalarValue("nameType"),
		},
		SubfieldSpec{
			Name:    "nameIdentifier",
			Extract: nameIdentifiers,
		},
		SubfieldSpec{
			Name:    "nameIdentifierScheme",
			Values:  nameIdentifierSchemes,
			Extract: nameIdentifierScheme,
		},
		SubfieldSpec{
			Name:    "affiliation",
			Extract: affiliations,
		},
		SubfieldSpec{
			Name:    "affiliationIdentifier",
			Extract: affiliationIdentifier,
		},
		SubfieldSpec{
			Name:    "affiliationIdentifierScheme",
			Values:  affiliationIdentifierSchemes,
			Extract: affiliationIdentifierScheme,
		},
	)
}

// Default returns the DataCite metadata taxonomy: 20 fields, their
// mandatory/recommended/optional status, and the subfield tables for the
// five composite fields with tracked internals.
func Default() Schema {
	return finalize(Schema{Fields: []FieldSpec{
		{Name: "identifier", Status: Mandatory},
		{Name: "creators", Status: Mandatory, Repeatable: true,
			Subfields: personSubfields()},
		{Name: "titles", Status: Mandatory},
		{Name: "publisher", Status: Mandatory},
		{Name: "publicationYear", Status: Mandatory},
		{Name: "resourceType", Status: Mandatory,
			Subfields: []SubfieldSpec{
				{
					Name:    "resourceTypeGeneral",
					Values:  resourceTypeGeneralValues,
					Extract: scalarValue("resourceTypeGeneral"),
				},
			}},

		{Name: "subjects", Status: Recommended},
		{Name: "contributors", Status: Recommended, Repeatable: true,
			Subfields: personSubfields(SubfieldSpec{
				Name: "contributorType",
				Values: []string{
					"ContactPerson", "DataCollector", "DataCurator",
					"DataManager", "Distributor", "Editor",
					"HostingInstitution", "Producer", "ProjectLeader",
					"ProjectManager", "ProjectMember", "RegistrationAgency",
					"RegistrationAuthority", "RelatedPerson", "Researcher",
					"ResearchGroup", "RightsHolder", "Sponsor", "Supervisor",
					"WorkPackageLeader", "Other",
				},
				Extract: scalarValue("contributorType"),
			})},
		{Name: "date", Status: Recommended},
		{Name: "relatedIdentifiers", Status: Recommended, Repeatable: true,
			Subfields: []SubfieldSpec{
				{
					Name: "relationType",
					Values: []string{
						"IsCitedBy", "Cites", "IsSupplementTo",
						"IsSupplementedBy", "IsContinuedBy", "Continues",
						"IsDescribedBy", "Describes", "HasMetadata",
						"IsMetadataFor", "HasVersion", "IsVersionOf",
						"IsNewVersionOf", "IsPreviousVersionOf", "IsPartOf",
						"HasPart", "IsPublishedIn", "IsReferencedBy",
						"References", "IsDocumentedBy", "Documents",
						"IsCompiledBy", "Compiles", "IsVariantFormOf",
						"IsOriginalFormOf", "IsIdenticalTo", "IsReviewedBy",
						"Reviews", "IsDerivedFrom", "IsSourceOf", "Requires",
						"IsRequiredBy", "Obsoletes", "IsObsoletedBy",
					},
					Extract: scalarValue("relationType"),
				},
				{
					Name: "relatedIdentifierType",
					Values: []string{
						"ARK", "arXiv", "bibcode", "DOI", "EAN13", "EISSN",
						"Handle", "IGSN", "ISBN", "ISSN", "ISTC", "LISSN",
						"LSID", "PMID", "PURL", "UPC", "URL", "URN", "w3id",
					},
					Extract: scalarValue("relatedIdentifierType"),
				},
				{
					Name:    "resourceTypeGeneral",
					Values:  resourceTypeGeneralValues,
					Extract: scalarValue("resourceTypeGeneral"),
				},
			}},
		{Name: "description", Status: Recommended},
		{Name: "geoLocations", Status: Recommended},

		{Name: "language", Status: Optional},
		{Name: "alternateIdentifiers", Status: Optional},
		{Name: "sizes", Status: Optional},
		{Name: "formats", Status: Optional},
		{Name: "version", Status: Optional},
		{Name: "rights", Status: Optional},
		{Name: "fundingReferences", Status: Optional, Repeatable: true,
			Subfields: []SubfieldSpec{
				{Name: "funderName", Extract: scalarValue("funderName")},
				{Name: "funderIdentifier", Extract: scalarValue("funderIdentifier")},
				{
					Name:    "funderIdentifierType",
					Values:  []string{"Crossref Funder ID", "ROR", "Other"},
					Extract: scalarValue("funderIdentifierType"),
				},
				{Name: "awardNumber", Extract: scalarValue("awardNumber")},
				{Name: "awardURI", Extract: scalarValue("awardURI")},
				{Name: "awardTitle", Extract: scalarValue("awardTitle")},
			}},
		{Name: "relatedItems", Status: Optional},
	}})
}
