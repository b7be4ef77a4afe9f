package schema

// SecurityEventTable represents the 'core.securityevent' table
type SecurityEventTable struct {
	Table     string
	ID        string
	SubjectID string
	Kind      string
	Success   string
	Detail    string
	Role      string
	Path      string
	Method    string
	CreatedAt string
}

// SecurityEvent is the schema definition for core.securityevent
var SecurityEvent = SecurityEventTable{
	Table:     "core.securityevent",
	ID:        "id",
	SubjectID: "subjectid",
	Kind:      "kind",
	Success:   "success",
	Detail:    "detail",
	Role:      "role",
	Path:      "path",
	Method:    "method",
	CreatedAt: "createdat",
}

// Columns returns all standard column names
func (t SecurityEventTable) Columns() []string {
	return []string{
		t.ID, t.SubjectID, t.Kind, t.Success, t.Detail, t.Role, t.Path, t.Method, t.CreatedAt,
	}
}
