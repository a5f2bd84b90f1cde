package materialinfo

import "github.com/altinukshini/gocd-tui/internal/model"

const (
	NeverRan     = "never ran"
	NotSpecified = "not specified"
)

// Details is the display text of a material, with every fallback applied.
type Details struct {
	Type            string
	Name            string
	Destination     string
	Date            string
	User            string
	Comment         string
	LastRunRevision string
}

// Describe resolves the text shown for each field of m. A material whose
// revision is missing or an empty object has never run; a revision that has
// keys but lacks a field shows that field as not specified.
func Describe(m model.Material, formatTime func(string) string) Details {
	d := Details{
		Type:        m.Type,
		Name:        m.Name,
		Destination: m.Destination,
	}
	if d.Destination == "" {
		d.Destination = NotSpecified
	}

	rev := m.Revision
	if rev.IsEmpty() {
		d.Date, d.User, d.Comment, d.LastRunRevision = NeverRan, NeverRan, NeverRan, NeverRan
		return d
	}

	d.Date = field(rev.Date, formatTime)
	d.User = field(rev.User, nil)
	d.Comment = field(rev.Comment, nil)
	d.LastRunRevision = field(rev.LastRunRevision, nil)
	return d
}

func field(v *string, format func(string) string) string {
	if v == nil {
		return NotSpecified
	}
	if format != nil {
		return format(*v)
	}
	return *v
}
