package task

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxTitleLength is the longest accepted title, in characters.
const MaxTitleLength = 255

// Fields holds caller-supplied task attributes. A nil pointer means the
// attribute was not supplied. Owner, id, creation time and deletion state
// are never part of Fields.
type Fields struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Priority    *string
	Status      *string
}

// ValidateNew checks Fields for task creation.
func (f Fields) ValidateNew() error {
	return f.validate(true)
}

// ValidateChanges checks Fields for an update. A full update (PUT) requires
// the same fields as creation; a partial update only checks what is present.
func (f Fields) ValidateChanges(full bool) error {
	return f.validate(full)
}

// Empty reports whether no attribute was supplied.
func (f Fields) Empty() bool {
	return f.Title == nil && f.Description == nil && f.DueDate == nil &&
		f.Priority == nil && f.Status == nil
}

func (f Fields) validate(requireAll bool) error {
	if f.Title == nil {
		if requireAll {
			return Validation("title", "title: This field is required.")
		}
	} else {
		title := strings.TrimSpace(*f.Title)
		if title == "" {
			return Validation("title", "title: This field may not be blank.")
		}
		if utf8.RuneCountInString(title) > MaxTitleLength {
			return Validation("title", "title: Ensure this field has no more than 255 characters.")
		}
	}
	if f.Description == nil && requireAll {
		return Validation("description", "description: This field is required.")
	}
	if f.DueDate == nil && requireAll {
		return Validation("due_date", "due_date: This field is required.")
	}
	if f.Priority != nil {
		if _, ok := ParsePriority(*f.Priority); !ok {
			return Validation("priority", "priority: \""+*f.Priority+"\" is not a valid choice. Must be one of: "+strings.Join(priorityNames(), ", "))
		}
	}
	if f.Status != nil {
		if _, ok := ParseStatus(*f.Status); !ok {
			return Validation("status", "status: \""+*f.Status+"\" is not a valid choice. Must be one of: "+strings.Join(statusNames(), ", "))
		}
	}
	return nil
}

// Columns returns the column updates described by f, with the title
// trimmed. Call after validation.
func (f Fields) Columns() map[string]any {
	cols := make(map[string]any, 5)
	if f.Title != nil {
		cols["title"] = strings.TrimSpace(*f.Title)
	}
	if f.Description != nil {
		cols["description"] = *f.Description
	}
	if f.DueDate != nil {
		cols["due_date"] = f.DueDate.UTC()
	}
	if f.Priority != nil {
		cols["priority"] = string(Priority(*f.Priority))
	}
	if f.Status != nil {
		cols["status"] = string(Status(*f.Status))
	}
	return cols
}

var dueDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDueDate parses an ISO 8601 date or date-time. Values without a zone
// are read as UTC.
func ParseDueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, Validation("due_date", "due_date: Datetime has wrong format. Use one of these formats instead: YYYY-MM-DDThh:mm[:ss[.uuuuuu]][+HH:MM|-HH:MM|Z].")
}

func priorityNames() []string {
	names := make([]string, len(Priorities))
	for i, p := range Priorities {
		names[i] = string(p)
	}
	return names
}

func statusNames() []string {
	names := make([]string, len(Statuses))
	for i, s := range Statuses {
		names[i] = string(s)
	}
	return names
}
