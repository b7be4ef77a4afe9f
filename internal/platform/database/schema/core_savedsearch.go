package schema

// SavedSearchTable represents the 'core.savedsearch' table
type SavedSearchTable struct {
	Table     string
	ID        string
	UserID    string
	Name      string
	Filters   string
	CreatedAt string
	UpdatedAt string
}

// SavedSearch is the schema definition for core.savedsearch
var SavedSearch = SavedSearchTable{
	Table:     "core.savedsearch",
	ID:        "id",
	UserID:    "userid",
	Name:      "name",
	Filters:   "filters",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns returns all standard column names
func (t SavedSearchTable) Columns() []string {
	return []string{t.ID, t.UserID, t.Name, t.Filters, t.CreatedAt, t.UpdatedAt}
}
