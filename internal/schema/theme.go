package schema

// Theme is the persisted visual theme produced by a theme generation run.
type Theme struct {
	ID          string   `json:"id"`
	UserID      string   `json:"userId"`
	Name        string   `json:"name"`
	Colors      []Color  `json:"colors"`
	GoogleFonts []string `json:"googleFonts"`
	ResumeHTML  string   `json:"resumeHtml"`
	ResumeCSS   string   `json:"resumeCss"`
	LetterHTML  string   `json:"letterHtml"`
	LetterCSS   string   `json:"letterCss"`
	CreatedAt   string   `json:"createdAt"`
}

type Color struct {
	Role string `json:"role"`
	Hex  string `json:"hex"`
}

func colorSpec() *RecordSpec {
	return &RecordSpec{Fields: []SubField{
		{Name: "role", Kind: KindString, Required: true},
		{Name: "hex", Kind: KindString, Required: true},
	}}
}

func templateSpec() []SubField {
	return []SubField{
		{Name: "html", Kind: KindString, Required: true},
		{Name: "css", Kind: KindString, Required: true},
	}
}

// ThemeFields is the declared output contract of a theme generation run.
func ThemeFields() []FieldSpec {
	return []FieldSpec{
		{
			Name:  "theme_brief",
			Shape: ShapeRecord,
			Elem: []SubField{
				{Name: "name", Kind: KindString, Required: true},
				{Name: "color_palette", Kind: KindList, Required: true, Item: colorSpec()},
				{Name: "google_fonts", Kind: KindList, Required: true, ItemKind: KindString},
			},
		},
		{Name: "resume_theme", Shape: ShapeRecord, Elem: templateSpec()},
		{Name: "cover_letter_theme", Shape: ShapeRecord, Elem: templateSpec()},
	}
}
