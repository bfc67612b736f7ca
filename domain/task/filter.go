package task

// Filter narrows a list query. Nil fields do not filter.
type Filter struct {
	Status   *Status
	Priority *Priority
}

// ParseFilter validates raw query parameters. An empty string means the
// parameter was not supplied. Status is checked before priority.
func ParseFilter(status, priority string) (Filter, error) {
	var f Filter
	if status != "" {
		st, ok := ParseStatus(status)
		if !ok {
			return Filter{}, InvalidParameter("status", statusNames())
		}
		f.Status = &st
	}
	if priority != "" {
		p, ok := ParsePriority(priority)
		if !ok {
			return Filter{}, InvalidParameter("priority", priorityNames())
		}
		f.Priority = &p
	}
	return f, nil
}

// StatusOnly returns a filter with only the status predicate of f.
func (f Filter) StatusOnly() Filter {
	return Filter{Status: f.Status}
}

// PriorityOnly returns a filter with only the priority predicate of f.
func (f Filter) PriorityOnly() Filter {
	return Filter{Priority: f.Priority}
}
