package agent

// Factories for the built-in agent specs. Each returns a fresh immutable
// value per call.

const defaultModel = "gemini-2.5-flash"

// ResumeSpecs returns the specs for a resume tailoring run.
func ResumeSpecs(model string) (experience, skills, projects, summary Spec) {
	if model == "" {
		model = defaultModel
	}
	experience = Spec{
		Name:        "experience_agent",
		Model:       model,
		Description: "Analyze resume and job description and extract the most relevant experiences.",
		Instruction: "You are an expert career strategist. Select and rewrite the candidate's experiences " +
			"so they speak to the job description. Return {\"experiences\": [{\"id\", \"company\", " +
			"\"position\", \"startDate\", \"endDate\", \"responsibilities\": []}]}.",
		OutputField:   "experiences",
		Temperature:   0.1,
		ResumeQueries: []string{"experience responsibilities achievements"},
		JobQueries:    []string{"required experience responsibilities"},
	}
	skills = Spec{
		Name:        "skills_agent",
		Model:       model,
		Description: "Extract the skills most relevant to the job description.",
		Instruction: "You are an expert skills strategist. Return {\"skills\": [{\"id\", \"name\", " +
			"\"level\"}], \"additional_skills\": [\"...\"]} with level as a 1-5 proficiency.",
		OutputField:   "skills",
		Temperature:   0.1,
		ResumeQueries: []string{"skills technologies tools"},
		JobQueries:    []string{"required skills qualifications"},
	}
	projects = Spec{
		Name:        "projects_agent",
		Model:       model,
		Description: "Select the projects that best support this application.",
		Instruction: "You are an expert project strategist. Return {\"projects\": [{\"id\", \"name\", " +
			"\"description\", \"url\"}]}.",
		OutputField:   "projects",
		Temperature:   0.1,
		ResumeQueries: []string{"projects built delivered"},
		JobQueries:    []string{"responsibilities technologies"},
	}
	summary = Spec{
		Name:        "summary_agent",
		Model:       model,
		Description: "Write a compelling professional summary tailored to the job.",
		Instruction: "You are an expert career storyteller. Using the tailored sections already produced, " +
			"return {\"summary\": \"...\"} with a single paragraph.",
		OutputField:   "summary",
		Temperature:   0.1,
		ResumeQueries: []string{"summary strengths"},
		JobQueries:    []string{"role mission company"},
	}
	return experience, skills, projects, summary
}

// CoverLetterSpecs returns the analyst, writer, and editor specs for a
// cover letter run.
func CoverLetterSpecs(model string) (analyst, writer, editor Spec) {
	if model == "" {
		model = defaultModel
	}
	analyst = Spec{
		Name:        "cover_letter_analyst",
		Model:       model,
		Description: "Analyze the role and company to produce a strategic brief.",
		Instruction: "Return {\"role_summary\", \"company_summary\", \"key_requirements\": [], " +
			"\"talking_points\": []} grounded in the retrieval snippets.",
		OutputField:   "analysis",
		Temperature:   0.2,
		ResumeQueries: []string{"summary experience skills"},
		JobQueries:    []string{"role company requirements culture"},
	}
	writer = Spec{
		Name:        "cover_letter_writer",
		Model:       model,
		Description: "Write the cover letter draft following the analyst's brief.",
		Instruction: "Return {\"opening_paragraph\", \"body_paragraphs\": [], \"company_connection\", " +
			"\"closing_paragraph\", \"tone\"}.",
		OutputField:   "draft",
		Temperature:   0.4,
		ResumeQueries: []string{"achievements impact"},
		JobQueries:    []string{"requirements mission"},
	}
	editor = Spec{
		Name:        "cover_letter_editor",
		Model:       model,
		Description: "Polish the draft for tone, flow, and ATS friendliness.",
		Instruction: "Return the edited letter as {\"opening_paragraph\", \"body_paragraphs\": [], " +
			"\"company_connection\", \"closing_paragraph\", \"tone\", \"word_count\", \"ats_score\"}.",
		OutputField: "letter",
		Temperature: 0.2,
	}
	return analyst, writer, editor
}

// ThemeSpecs returns the brief and template specs for a theme run.
func ThemeSpecs(model string) (brief, resumeTheme, letterTheme Spec) {
	if model == "" {
		model = defaultModel
	}
	brief = Spec{
		Name:        "theme_brief_agent",
		Model:       model,
		Description: "Turn a design prompt into a brief of colors and fonts.",
		Instruction: "Return {\"name\", \"color_palette\": [{\"role\", \"hex\"}], \"google_fonts\": []}.",
		OutputField: "theme_brief",
		Temperature: 0.5,
	}
	resumeTheme = Spec{
		Name:        "resume_theme_agent",
		Model:       model,
		Description: "Generate the resume template for the brief.",
		Instruction: "Return {\"html\", \"css\"} implementing the brief's palette and fonts.",
		OutputField: "resume_theme",
		Temperature: 0.3,
	}
	letterTheme = Spec{
		Name:        "cover_letter_theme_agent",
		Model:       model,
		Description: "Generate the cover letter template for the brief.",
		Instruction: "Return {\"html\", \"css\"} implementing the brief's palette and fonts.",
		OutputField: "cover_letter_theme",
		Temperature: 0.3,
	}
	return brief, resumeTheme, letterTheme
}
