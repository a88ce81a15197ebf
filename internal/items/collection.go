package items

import "strings"

// IndexOf returns the position of the item with the given ID, or -1.
func IndexOf(list []*Template, id string) int {
	for i, it := range list {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// Has checks if an item with the given ID exists in a collection
func Has(list []*Template, id string) bool {
	return IndexOf(list, id) >= 0
}

// Find searches a collection by ID or by partial name match (case-insensitive).
// Exact ID matches win over name matches.
func Find(list []*Template, query string) (*Template, bool) {
	if i := IndexOf(list, query); i >= 0 {
		return list[i], true
	}

	query = strings.ToLower(query)
	for _, it := range list {
		if strings.EqualFold(it.Name, query) {
			return it, true
		}
	}
	for _, it := range list {
		if strings.Contains(strings.ToLower(it.Name), query) {
			return it, true
		}
	}
	return nil, false
}

// Names returns the display names of every item in a collection
func Names(list []*Template) []string {
	names := make([]string, 0, len(list))
	for _, it := range list {
		names = append(names, it.Name)
	}
	return names
}
