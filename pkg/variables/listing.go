package variables

// Entry is one variable of a Listing
type Entry struct {
	Name        string `json:"name"`
	Value       string `json:"value"`
	Set         bool   `json:"set"`
	Description string `json:"description,omitempty"`
}

// Listing is the documented view of a variable collection
type Listing []Entry

// Describe lists every catalog entry in order, set or not, followed by the
// remaining variables of vars sorted by name.
func Describe(vars Collection, catalogs ...[]Definition) Listing {
	out := Listing{}
	documented := make(map[string]bool)
	for _, catalog := range catalogs {
		for _, def := range catalog {
			if documented[def.Name] {
				continue
			}
			documented[def.Name] = true
			value, set := vars[def.Name]
			out = append(out, Entry{Name: def.Name, Value: value, Set: set, Description: def.Desc})
		}
	}
	for _, name := range vars.Keys() {
		if !documented[name] {
			out = append(out, Entry{Name: name, Value: vars[name], Set: true})
		}
	}
	return out
}
