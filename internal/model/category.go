package model

// Category labels transactions with a display name, icon and color.
// Icon and color are opaque identifiers resolved by the presentation layer.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// EntityID returns the category identifier.
func (c Category) EntityID() string {
	return c.ID
}

// CategoryInput holds the fields of a category before an id is assigned.
type CategoryInput struct {
	Name  string
	Icon  string
	Color string
}

// WithID builds the persisted category for this input.
func (in CategoryInput) WithID(id string) Category {
	return Category{
		ID:    id,
		Name:  in.Name,
		Icon:  in.Icon,
		Color: in.Color,
	}
}

// Input returns the category fields without the id.
func (c Category) Input() CategoryInput {
	return CategoryInput{Name: c.Name, Icon: c.Icon, Color: c.Color}
}

// Fallback rendering for transactions whose category no longer exists.
const (
	UnknownCategoryName  = "Unknown"
	UnknownCategoryIcon  = "circle-help"
	UnknownCategoryColor = "gray"
)

// ResolveCategory looks up id in categories. Dangling references resolve to a
// placeholder category carrying the original id.
func ResolveCategory(categories []Category, id string) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{
		ID:    id,
		Name:  UnknownCategoryName,
		Icon:  UnknownCategoryIcon,
		Color: UnknownCategoryColor,
	}, false
}
