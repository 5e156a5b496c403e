package resume

import (
	"strings"

	"github.com/google/uuid"
)

// SectionField identifies an editable field of a section.
type SectionField string

const (
	FieldTitle   SectionField = "title"
	FieldContent SectionField = "content"
)

// ParseSectionField validates a wire-level field name.
func ParseSectionField(s string) (SectionField, error) {
	switch SectionField(s) {
	case FieldTitle, FieldContent:
		return SectionField(s), nil
	}
	return "", &FieldError{Field: s}
}

// ContactField identifies an editable field of the contact block.
type ContactField string

const (
	ContactEmail    ContactField = "email"
	ContactPhone    ContactField = "phone"
	ContactLocation ContactField = "location"
	ContactLinkedIn ContactField = "linkedin"
)

// ParseContactField validates a wire-level contact field name.
func ParseContactField(s string) (ContactField, error) {
	switch ContactField(s) {
	case ContactEmail, ContactPhone, ContactLocation, ContactLinkedIn:
		return ContactField(s), nil
	}
	return "", &FieldError{Field: s}
}

// SetName returns a snapshot with the candidate name replaced.
func (d Document) SetName(name string) Document {
	out := d.Clone()
	out.Name = name
	return out
}

// SetTitle returns a snapshot with the headline title replaced.
func (d Document) SetTitle(title string) Document {
	out := d.Clone()
	out.Title = title
	return out
}

// SetContactField returns a snapshot with one contact field replaced.
// A nil contact block is created on first write.
func (d Document) SetContactField(field ContactField, value string) (Document, error) {
	out := d.Clone()
	if out.Contact == nil {
		out.Contact = &Contact{}
	}
	switch field {
	case ContactEmail:
		out.Contact.Email = value
	case ContactPhone:
		out.Contact.Phone = value
	case ContactLocation:
		out.Contact.Location = value
	case ContactLinkedIn:
		out.Contact.LinkedIn = value
	default:
		return d, &FieldError{Field: string(field)}
	}
	return out, nil
}

// SetSectionField returns a snapshot with one field of the identified
// section replaced. The value round-trips verbatim, including empty
// strings and multi-line text.
func (d Document) SetSectionField(id string, field SectionField, value string) (Document, error) {
	i := d.sectionIndex(id)
	if i < 0 {
		return d, &NotFoundError{ID: id}
	}
	out := d.Clone()
	switch field {
	case FieldTitle:
		out.Sections[i].Title = value
	case FieldContent:
		out.Sections[i].Content = value
	default:
		return d, &FieldError{Field: string(field)}
	}
	return out, nil
}

// AddSection appends a new section with a freshly minted ID and returns
// the snapshot along with the created section.
func (d Document) AddSection(title, content string) (Document, Section) {
	out := d.Clone()
	sec := Section{ID: "section-" + idToken(), Title: title, Content: content}
	out.Sections = append(out.Sections, sec)
	return out, sec
}

// DeleteSection returns a snapshot with the identified section removed.
// Relative order of the remaining sections is preserved. An unknown ID
// leaves the document unchanged and reports NotFoundError.
func (d Document) DeleteSection(id string) (Document, error) {
	i := d.sectionIndex(id)
	if i < 0 {
		return d, &NotFoundError{ID: id}
	}
	out := d.Clone()
	out.Sections = append(out.Sections[:i], out.Sections[i+1:]...)
	return out, nil
}

// DuplicateSection clones the identified section immediately after its
// source. Title and content are copied verbatim; the clone gets a fresh
// unique ID derived from the source ID plus a random token, so rapid
// successive duplications never collide.
func (d Document) DuplicateSection(id string) (Document, Section, error) {
	i := d.sectionIndex(id)
	if i < 0 {
		return d, Section{}, &NotFoundError{ID: id}
	}
	out := d.Clone()
	clone := out.Sections[i]
	clone.ID = out.Sections[i].ID + "-" + idToken()
	out.Sections = append(out.Sections, Section{})
	copy(out.Sections[i+2:], out.Sections[i+1:])
	out.Sections[i+1] = clone
	return out, clone, nil
}

// MoveSectionUp swaps the identified section with its predecessor.
// Already-first sections are left in place; that is a policy decision,
// not an error. An unknown ID reports NotFoundError.
func (d Document) MoveSectionUp(id string) (Document, error) {
	i := d.sectionIndex(id)
	if i < 0 {
		return d, &NotFoundError{ID: id}
	}
	if i == 0 {
		return d, nil
	}
	out := d.Clone()
	out.Sections[i], out.Sections[i-1] = out.Sections[i-1], out.Sections[i]
	return out, nil
}

// MoveSectionDown swaps the identified section with its successor.
// Already-last sections are left in place.
func (d Document) MoveSectionDown(id string) (Document, error) {
	i := d.sectionIndex(id)
	if i < 0 {
		return d, &NotFoundError{ID: id}
	}
	if i == len(d.Sections)-1 {
		return d, nil
	}
	out := d.Clone()
	out.Sections[i], out.Sections[i+1] = out.Sections[i+1], out.Sections[i]
	return out, nil
}

// SetSkill returns a snapshot with the skill at the given index replaced.
func (d Document) SetSkill(index int, value string) (Document, error) {
	if index < 0 || index >= len(d.Skills) {
		return d, &IndexError{Index: index, Len: len(d.Skills)}
	}
	out := d.Clone()
	out.Skills[index] = value
	return out, nil
}

// AddSkill returns a snapshot with the skill appended.
func (d Document) AddSkill(value string) Document {
	out := d.Clone()
	out.Skills = append(out.Skills, value)
	return out
}

// RemoveSkill returns a snapshot with the skill at the given index removed.
func (d Document) RemoveSkill(index int) (Document, error) {
	if index < 0 || index >= len(d.Skills) {
		return d, &IndexError{Index: index, Len: len(d.Skills)}
	}
	out := d.Clone()
	out.Skills = append(out.Skills[:index], out.Skills[index+1:]...)
	return out, nil
}

// SetSkills returns a snapshot with the whole skill list replaced.
func (d Document) SetSkills(skills []string) Document {
	out := d.Clone()
	out.Skills = make([]string, len(skills))
	copy(out.Skills, skills)
	return out
}

func (d Document) sectionIndex(id string) int {
	for i, s := range d.Sections {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// idToken mints a short random suffix for section IDs.
func idToken() string {
	return strings.Split(uuid.NewString(), "-")[0]
}
