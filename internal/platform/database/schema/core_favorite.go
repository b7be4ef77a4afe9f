package schema

// FavoriteTable represents the 'core.favorite' table
type FavoriteTable struct {
	Table      string
	ID         string
	UserID     string
	PropertyID string
	CreatedAt  string
}

// Favorite is the schema definition for core.favorite
var Favorite = FavoriteTable{
	Table:      "core.favorite",
	ID:         "id",
	UserID:     "userid",
	PropertyID: "propertyid",
	CreatedAt:  "createdat",
}

// Columns returns all standard column names
func (t FavoriteTable) Columns() []string {
	return []string{t.ID, t.UserID, t.PropertyID, t.CreatedAt}
}
