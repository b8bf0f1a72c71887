package types

// Icon tokens a category can display.
const (
	IconCheckSquare     = "CheckSquare"
	IconUsers           = "Users"
	IconBriefcase       = "Briefcase"
	IconCalendar        = "Calendar"
	IconLightbulb       = "Lightbulb"
	IconFileSpreadsheet = "FileSpreadsheet"
)

// DefaultIcon is used when a category is created without an icon, and for
// every category created by a spreadsheet import.
const DefaultIcon = IconFileSpreadsheet

// Icons lists the recognised icon tokens in display order.
var Icons = []string{
	IconCheckSquare,
	IconUsers,
	IconBriefcase,
	IconCalendar,
	IconLightbulb,
	IconFileSpreadsheet,
}

// IsValidIcon reports whether icon is a recognised token.
func IsValidIcon(icon string) bool {
	for _, i := range Icons {
		if i == icon {
			return true
		}
	}
	return false
}

// Category is a named grouping that owns one Schema and one record
// collection.
type Category struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Icon   string `json:"icon"`
	Schema Schema `json:"schema"`
}

// Clone returns a copy whose schema shares no storage with c.
func (c Category) Clone() Category {
	c.Schema = c.Schema.Clone()
	return c
}
