package schema

// CoverLetter is the persisted result of a cover letter run.
type CoverLetter struct {
	ID                string     `json:"id"`
	ResumeID          string     `json:"resumeId"`
	Title             string     `json:"title"`
	JobDetails        JobDetails `json:"jobDetails"`
	OpeningParagraph  string     `json:"openingParagraph"`
	BodyParagraphs    []string   `json:"bodyParagraphs"`
	CompanyConnection string     `json:"companyConnection,omitempty"`
	ClosingParagraph  string     `json:"closingParagraph"`
	Tone              string     `json:"tone"`
	WordCount         int        `json:"wordCount"`
	ATSScore          int        `json:"atsScore"`
	CreatedAt         string     `json:"createdAt"`
	UpdatedAt         string     `json:"updatedAt"`
}

type JobDetails struct {
	Title   string `json:"title"`
	Company string `json:"company"`
	URL     string `json:"url"`
}

func letterContentSpec() []SubField {
	return []SubField{
		{Name: "opening_paragraph", Kind: KindString, Required: true},
		{Name: "body_paragraphs", Kind: KindList, Required: true, ItemKind: KindString},
		{Name: "company_connection", Kind: KindString, Nullable: true},
		{Name: "closing_paragraph", Kind: KindString, Required: true},
		{Name: "tone", Kind: KindString, Nullable: true},
		{Name: "word_count", Kind: KindInt, Nullable: true},
		{Name: "ats_score", Kind: KindInt, Nullable: true},
	}
}

// CoverLetterFields is the declared output contract of a cover letter run:
// the analyst's brief, the writer's draft, and the editor's final letter.
func CoverLetterFields() []FieldSpec {
	return []FieldSpec{
		{
			Name:  "analysis",
			Shape: ShapeRecord,
			Elem: []SubField{
				{Name: "role_summary", Kind: KindString, Required: true},
				{Name: "company_summary", Kind: KindString, Required: true},
				{Name: "key_requirements", Kind: KindList, Required: true, ItemKind: KindString},
				{Name: "talking_points", Kind: KindList, Required: true, ItemKind: KindString},
			},
		},
		{Name: "draft", Shape: ShapeRecord, Elem: letterContentSpec()},
		{Name: "letter", Shape: ShapeRecord, Elem: letterContentSpec()},
	}
}
