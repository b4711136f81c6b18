package rules

// ExtractValue computes the logical value of f. group is the form's full
// field group; radio and checkbox fields collect their options from it by
// control name.
//
// ok is false when f has no control name. The value is then absent and
// callers must treat the field as impossible to validate.
func ExtractValue(f Field, group []Field) (v Value, ok bool) {
	if f.Name == "" {
		return Absent(), false
	}

	switch f.Kind {
	case KindRadio:
		for _, opt := range group {
			if opt.Name == f.Name && opt.Checked {
				return String(opt.Value), true
			}
		}
		return String(""), true

	case KindCheckbox:
		checked := 0
		var values []string
		for _, opt := range group {
			if opt.Name != f.Name || !opt.Checked {
				continue
			}
			checked++
			// Options without an explicit value map to true, which
			// collapses the whole group to true below.
			if opt.HasValue && opt.Value != "" {
				values = append(values, opt.Value)
			}
		}
		if checked == 0 {
			return Bool(false), true
		}
		if len(values) == 0 {
			return Bool(true), true
		}
		return List(values...), true

	case KindFile:
		return Files(f.Files), true

	default:
		if f.HasValue && f.Value != "" {
			return String(f.Value), true
		}
		return String(f.Staged), true
	}
}

// ExtractAll returns the value of every named field in group, keyed by
// control name. The first field of a name determines its value.
func ExtractAll(group []Field) map[string]Value {
	out := make(map[string]Value, len(group))
	for _, f := range group {
		if _, seen := out[f.Name]; seen {
			continue
		}
		if v, ok := ExtractValue(f, group); ok {
			out[f.Name] = v
		}
	}
	return out
}
