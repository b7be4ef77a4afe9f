package schema

// PropertyTable represents the 'core.property' table
type PropertyTable struct {
	Table       string
	ID          string
	OwnerID     string
	Title       string
	Slug        string
	Description string
	Address     string
	City        string
	PriceCents  string
	Bedrooms    string
	Bathrooms   string
	ListingType string
	Status      string
	CreatedAt   string
	UpdatedAt   string
	DeletedAt   string
}

// Property is the schema definition for core.property
var Property = PropertyTable{
	Table:       "core.property",
	ID:          "id",
	OwnerID:     "ownerid",
	Title:       "title",
	Slug:        "slug",
	Description: "description",
	Address:     "address",
	City:        "city",
	PriceCents:  "pricecents",
	Bedrooms:    "bedrooms",
	Bathrooms:   "bathrooms",
	ListingType: "listingtype",
	Status:      "status",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
	DeletedAt:   "deletedat",
}

// Columns returns all standard column names
func (t PropertyTable) Columns() []string {
	return []string{
		t.ID, t.OwnerID, t.Title, t.Slug, t.Description, t.Address, t.City,
		t.PriceCents, t.Bedrooms, t.Bathrooms, t.ListingType, t.Status,
		t.CreatedAt, t.UpdatedAt, t.DeletedAt,
	}
}
