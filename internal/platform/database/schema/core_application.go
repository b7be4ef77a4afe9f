package schema

// ApplicationTable represents the 'core.application' table
type ApplicationTable struct {
	Table              string
	ID                 string
	PropertyID         string
	UserID             string
	FullName           string
	Email              string
	MonthlyIncomeCents string
	Message            string
	Status             string
	DecidedBy          string
	CreatedAt          string
	UpdatedAt          string
}

// Application is the schema definition for core.application
var Application = ApplicationTable{
	Table:              "core.application",
	ID:                 "id",
	PropertyID:         "propertyid",
	UserID:             "userid",
	FullName:           "fullname",
	Email:              "email",
	MonthlyIncomeCents: "monthlyincomecents",
	Message:            "message",
	Status:             "status",
	DecidedBy:          "decidedby",
	CreatedAt:          "createdat",
	UpdatedAt:          "updatedat",
}

// Columns returns all standard column names
func (t ApplicationTable) Columns() []string {
	return []string{
		t.ID, t.PropertyID, t.UserID, t.FullName, t.Email, t.MonthlyIncomeCents,
		t.Message, t.Status, t.DecidedBy, t.CreatedAt, t.UpdatedAt,
	}
}
