// Package category holds the fixed complaint taxonomy and the keyword
// heuristic that maps classifier labels onto it.
package category

// Category is one entry of the complaint taxonomy. IDs are shared with the
// external registry and must not be renumbered.
type Category struct {
	ID       int
	Name     string
	Keywords []string
}

// taxonomy is ordered by ID; inference relies on this order to break ties.
var taxonomy = []Category{
	{ID: 1, Name: "Dead animal(s)", Keywords: []string{"carcass", "dead", "dog", "cat", "cow", "buffalo", "goat"}},
	{ID: 2, Name: "Dustbins not cleaned", Keywords: []string{"bin", "dustbin", "ashcan", "trash_can", "trash can", "garbage can", "wastebin"}},
	{ID: 3, Name: "Garbage dump", Keywords: []string{"dump", "litter", "rubbish", "waste", "landfill", "plastic_bag", "plastic bag", "bottle", "debris"}},
	{ID: 4, Name: "Garbage vehicle not arrived", Keywords: []string{"garbage_truck", "garbage truck", "dustcart", "truck", "vehicle", "trailer", "tractor", "lorry", "van"}},
	{ID: 5, Name: "Sweeping not done", Keywords: []string{"broom", "sweep", "dust", "leaves", "swab"}},
	{ID: 6, Name: "Burning of garbage in open space", Keywords: []string{"fire", "smoke", "flame", "burning", "bonfire"}},
	{ID: 7, Name: "Public toilet not clean", Keywords: []string{"toilet", "urinal", "lavatory", "washbasin"}},
	{ID: 8, Name: "Open manholes or drains", Keywords: []string{"manhole", "drain", "sewer", "gutter", "grate"}},
	{ID: 9, Name: "Stagnant water", Keywords: []string{"water", "puddle", "pond", "flood", "swamp"}},
}

var byID = func() map[int]Category {
	m := make(map[int]Category, len(taxonomy))
	for _, c := range taxonomy {
		m[c.ID] = c
	}
	return m
}()

// All returns the taxonomy in ID order. The slice is a copy.
func All() []Category {
	out := make([]Category, len(taxonomy))
	copy(out, taxonomy)
	return out
}

// Lookup returns the category with the given ID.
func Lookup(id int) (Category, bool) {
	c, ok := byID[id]
	return c, ok
}

// Contains reports whether id is a known category.
func Contains(id int) bool {
	_, ok := byID[id]
	return ok
}

// Name returns the display name for id, or "Unknown".
func Name(id int) string {
	if c, ok := byID[id]; ok {
		return c.Name
	}
	return UnknownName
}
