package schema

// InquiryTable represents the 'core.inquiry' table
type InquiryTable struct {
	Table      string
	ID         string
	PropertyID string
	AgentID    string
	Name       string
	Email      string
	Phone      string
	Message    string
	Status     string
	CreatedAt  string
	UpdatedAt  string
}

// Inquiry is the schema definition for core.inquiry
var Inquiry = InquiryTable{
	Table:      "core.inquiry",
	ID:         "id",
	PropertyID: "propertyid",
	AgentID:    "agentid",
	Name:       "name",
	Email:      "email",
	Phone:      "phone",
	Message:    "message",
	Status:     "status",
	CreatedAt:  "createdat",
	UpdatedAt:  "updatedat",
}

// Columns returns all standard column names
func (t InquiryTable) Columns() []string {
	return []string{
		t.ID, t.PropertyID, t.AgentID, t.Name, t.Email, t.Phone, t.Message, t.Status, t.CreatedAt, t.UpdatedAt,
	}
}
