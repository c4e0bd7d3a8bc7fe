package domain

import "errors"

var ErrInvalidCategoryID = errors.New("category id must be greater than zero")

// Category is a sub-category record. Several records share one
// MainCategory label, which is the only grouping the backend provides.
type Category struct {
	ID              int64
	MainCategory    string
	SubCategoryName string
	Description     string
}

// MainCategories returns the distinct MainCategory labels in first-seen
// order. Blank labels are skipped.
func MainCategories(categories []Category) []string {
	seen := make(map[string]struct{}, len(categories))
	names := make([]string, 0)
	for _, c := range categories {
		if c.MainCategory == "" {
			continue
		}
		if _, ok := seen[c.MainCategory]; ok {
			continue
		}
		seen[c.MainCategory] = struct{}{}
		names = append(names, c.MainCategory)
	}
	return names
}

// SubcategoriesOf returns the records whose MainCategory equals name
// exactly, in list order.
func SubcategoriesOf(categories []Category, name string) []Category {
	out := make([]Category, 0)
	for _, c := range categories {
		if c.MainCategory == name {
			out = append(out, c)
		}
	}
	return out
}
