// Package resume defines the resume document model and its update operations.
package resume

// Contact holds the optional contact block of a resume.
// Every field is independently optional.
type Contact struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
}

// Section is a titled content block within a resume. Sections are
// independently orderable; the ID is unique and stable for the lifetime
// of the document.
type Section struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Document is the resume content a project edits and renders.
// Section order is significant and user-controlled.
type Document struct {
	Name     string    `json:"name"`
	Title    string    `json:"title"`
	Contact  *Contact  `json:"contact,omitempty"`
	Sections []Section `json:"sections"`
	Skills   []string  `json:"skills,omitempty"`
}

// Clone returns a deep copy of the document. Update operations work on
// clones so that snapshots handed to callers never alias each other.
func (d Document) Clone() Document {
	out := d
	if d.Contact != nil {
		c := *d.Contact
		out.Contact = &c
	}
	if d.Sections != nil {
		out.Sections = make([]Section, len(d.Sections))
		copy(out.Sections, d.Sections)
	}
	if d.Skills != nil {
		out.Skills = make([]string, len(d.Skills))
		copy(out.Skills, d.Skills)
	}
	return out
}

// SectionIDs returns the section IDs in document order.
func (d Document) SectionIDs() []string {
	ids := make([]string, len(d.Sections))
	for i, s := range d.Sections {
		ids[i] = s.ID
	}
	return ids
}

// FindSection returns the section with the given ID, or false if absent.
func (d Document) FindSection(id string) (Section, bool) {
	for _, s := range d.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

// Sample returns the seeded starter resume used when a new project is created.
func Sample() Document {
	return Document{
		Name:  "Ravi Patel",
		Title: "Frontend Developer",
		Contact: &Contact{
			Email:    "ravi.patel@email.com",
			Phone:    "+1 (555) 123-4567",
			Location: "San Francisco, CA",
			LinkedIn: "linkedin.com/in/ravipatel",
		},
		Sections: []Section{
			{
				ID:    "summary",
				Title: "Professional Summary",
				Content: "Passionate frontend developer with 3+ years of experience building responsive " +
					"web applications using React, Next.js, and TypeScript. Proven track record of " +
					"delivering high-quality, user-focused solutions in fast-paced environments.",
			},
			{
				ID:    "experience",
				Title: "Experience",
				Content: "Frontend Developer Intern at Unschool Technologies (Jan 2023 - Present). " +
					"Built responsive web applications using React.js and Next.js. Collaborated with " +
					"design team to implement pixel-perfect UI components. Optimized application " +
					"performance, reducing load times by 40%.",
			},
			{
				ID:      "education",
				Title:   "Education",
				Content: "B.Tech in Computer Science from Indian Institute of Technology (2020 - 2024). CGPA: 8.5/10",
			},
			{
				ID:    "projects",
				Title: "Projects",
				Content: "Resume Builder App - Next.js, TypeScript, Tailwind CSS. Interactive resume " +
					"builder with multiple templates and PDF export functionality. Customer Analytics " +
					"Dashboard - React, Chart.js, PostgreSQL. Data visualization dashboard for tracking " +
					"customer metrics and KPIs.",
			},
		},
		Skills: []string{"Java", "Node.js", "Website Development"},
	}
}
