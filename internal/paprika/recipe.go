// Package paprika holds the recipe model and its rendering into the Paprika
// recipe manager's YAML import format.
package paprika

// Optional is a value that is either present or absent, absence is never encoded as
// the zero value.
type Optional[T any] struct {
	Value T
	Valid bool
}

func Some[T any](value T) Optional[T] {
	return Optional[T]{Value: value, Valid: true}
}

func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Valid
}

// NonEmpty is Some(`value`) unless `value` is empty.
func NonEmpty(value string) Optional[string] {
	if value == "" {
		return Optional[string]{}
	}
	return Some(value)
}

// Attribution is the name of the site or book a recipe came from and its link, the two
// are always set together.
type Attribution struct {
	Name string
	Url  string
}

type Recipe struct {
	Name        string
	Source      Optional[Attribution]
	Description Optional[string]
	Servings    Optional[string]
	PrepTime    Optional[string]
	Categories  Optional[[]string]
	// at most one note block is produced today, nil when there are none
	Notes []string
	// base64 encoded image
	Photo       Optional[string]
	Ingredients []string
	Directions  []string
}

// Collection is the ordered list of recipes gathered during a single run.
type Collection struct {
	recipes []Recipe
}

func (c *Collection) Append(recipe Recipe) {
	c.recipes = append(c.recipes, recipe)
}

func (c Collection) Len() int {
	return len(c.recipes)
}

// Recipes returns the recipes in insertion order.
func (c Collection) Recipes() []Recipe {
	out := make([]Recipe, len(c.recipes))
	copy(out, c.recipes)
	return out
}
