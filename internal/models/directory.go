package models

// NameDirectory resolves roster ids to display names for exports.
type NameDirectory struct {
	Sections map[string]string
	Subjects map[string]string
	Teachers map[string]string
}

// Section returns the section code or the id when unknown.
func (d NameDirectory) Section(id string) string {
	return lookupName(d.Sections, id)
}

// Subject returns the subject name or the id when unknown.
func (d NameDirectory) Subject(id *string) string {
	if id == nil {
		return ""
	}
	return lookupName(d.Subjects, *id)
}

// Teacher returns the teacher name or the id when unknown.
func (d NameDirectory) Teacher(id *string) string {
	if id == nil {
		return ""
	}
	return lookupName(d.Teachers, *id)
}

func lookupName(names map[string]string, id string) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return id
}
