package model

// Category is a read-only projection of a backend category.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Label is a read-only projection of a backend label.
// A label may belong to several categories.
type Label struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Categories []Category `json:"categories"`
}

// InCategory reports whether the label references the category id.
func (l Label) InCategory(id int64) bool {
	for _, c := range l.Categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

// CreateLabelRequest is the payload for creating a label.
type CreateLabelRequest struct {
	Name       string `json:"name"`
	CategoryID int64  `json:"category_id"`
}

// CategoryGroup is one dashboard section: a category and its labels.
type CategoryGroup struct {
	Category
	Labels []Label
}

// GroupLabelsByCategory builds one group per category, in category order.
// A label is listed under every category it references; labels that
// reference no known category are not listed.
func GroupLabelsByCategory(categories []Category, labels []Label) []CategoryGroup {
	groups := make([]CategoryGroup, 0, len(categories))
	for _, cat := range categories {
		g := CategoryGroup{Category: cat, Labels: []Label{}}
		for _, l := range labels {
			if l.InCategory(cat.ID) {
				g.Labels = append(g.Labels, l)
			}
		}
		groups = append(groups, g)
	}
	return groups
}
