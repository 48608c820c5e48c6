package schema

// Domain records carried by resume fragments. JSON tags follow the shapes
// stored by clients (camelCase dates, snake_case agent fields).

type Experience struct {
	ID               string   `json:"id"`
	Company          string   `json:"company"`
	Position         string   `json:"position"`
	StartDate        string   `json:"startDate"`
	EndDate          string   `json:"endDate"`
	Responsibilities []string `json:"responsibilities"`
}

type Skill struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Level int    `json:"level"` // 1-5 proficiency
}

type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

type Education struct {
	ID          string `json:"id"`
	Institution string `json:"institution"`
	Degree      string `json:"degree,omitempty"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
}

type ContactInfo struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
	Website  string `json:"website,omitempty"`
}

// Resume is the stored candidate resume that tailoring runs read from.
type Resume struct {
	ID          string        `json:"id"`
	UserID      string        `json:"userId"`
	Name        string        `json:"name"`
	Summary     string        `json:"summary"`
	ContactInfo []ContactInfo `json:"contact_info"`
	Experience  []Experience  `json:"experience"`
	Education   []Education   `json:"education"`
	Skills      []Skill       `json:"skills"`
	Projects    []Project     `json:"projects"`
}

func experienceSpec() *RecordSpec {
	return &RecordSpec{Fields: []SubField{
		{Name: "id", Kind: KindString, Required: true},
		{Name: "company", Kind: KindString, Required: true},
		{Name: "position", Kind: KindString, Required: true},
		{Name: "startDate", Kind: KindString, Required: true},
		{Name: "endDate", Kind: KindString, Required: true},
		{Name: "responsibilities", Kind: KindList, ItemKind: KindString},
	}}
}

func skillSpec() *RecordSpec {
	return &RecordSpec{Fields: []SubField{
		{Name: "id", Kind: KindString, Required: true},
		{Name: "name", Kind: KindString, Required: true},
		{Name: "level", Kind: KindInt, Required: true},
	}}
}

func projectSpec() *RecordSpec {
	return &RecordSpec{Fields: []SubField{
		{Name: "id", Kind: KindString, Required: true},
		{Name: "name", Kind: KindString, Required: true},
		{Name: "description", Kind: KindString, Required: true},
		{Name: "url", Kind: KindString, Required: true},
	}}
}

func educationSpec() *RecordSpec {
	return &RecordSpec{Fields: []SubField{
		{Name: "id", Kind: KindString, Required: true},
		{Name: "institution", Kind: KindString, Required: true},
		{Name: "degree", Kind: KindString, Nullable: true},
		{Name: "startDate", Kind: KindString, Required: true},
		{Name: "endDate", Kind: KindString, Required: true},
	}}
}

func contactInfoSpec() *RecordSpec {
	return &RecordSpec{Fields: []SubField{
		{Name: "email", Kind: KindString, Nullable: true},
		{Name: "phone", Kind: KindString, Nullable: true},
		{Name: "linkedin", Kind: KindString, Nullable: true},
		{Name: "github", Kind: KindString, Nullable: true},
		{Name: "website", Kind: KindString, Nullable: true},
	}}
}

// ResumeFields is the declared output contract of a resume tailoring run,
// in fixed assembly order. Every field is present in the assembled result.
func ResumeFields() []FieldSpec {
	return []FieldSpec{
		{
			Name:  "experiences",
			Shape: ShapeList,
			Elem: []SubField{
				{Name: "experiences", Kind: KindList, Required: true, Item: experienceSpec()},
			},
		},
		{
			Name:  "skills",
			Shape: ShapeRecord,
			Elem: []SubField{
				{Name: "skills", Kind: KindList, Required: true, Item: skillSpec()},
				{Name: "additional_skills", Kind: KindList, ItemKind: KindString},
			},
		},
		{
			Name:  "projects",
			Shape: ShapeList,
			Elem: []SubField{
				{Name: "projects", Kind: KindList, Required: true, Item: projectSpec()},
			},
		},
		{
			Name:  "education",
			Shape: ShapeList,
			Elem: []SubField{
				{Name: "education", Kind: KindList, Required: true, Item: educationSpec()},
			},
		},
		{
			Name:  "contact_info",
			Shape: ShapeList,
			Elem: []SubField{
				{Name: "contact_info", Kind: KindList, Required: true, Item: contactInfoSpec()},
			},
		},
		{
			Name:  "summary",
			Shape: ShapeScalar,
			Elem: []SubField{
				{Name: "summary", Kind: KindString, Required: true},
			},
		},
		{
			Name:  "name",
			Shape: ShapeScalar,
			Elem: []SubField{
				{Name: "name", Kind: KindString, Required: true},
			},
		},
	}
}
