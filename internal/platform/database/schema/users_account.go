package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table            string
	ID               string
	Email            string
	Password         string
	FullName         string
	Phone            string
	Role             string
	TwoFactorEnabled string
	IsVerified       string
	CreatedAt        string
	UpdatedAt        string
	DeletedAt        string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:            "users.account",
	ID:               "id",
	Email:            "email",
	Password:         "passwordhash",
	FullName:         "fullname",
	Phone:            "phone",
	Role:             "role",
	TwoFactorEnabled: "twofactorenabled",
	IsVerified:       "isverified",
	CreatedAt:        "createdat",
	UpdatedAt:        "updatedat",
	DeletedAt:        "deletedat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Email, t.Password, t.FullName, t.Phone, t.Role,
		t.TwoFactorEnabled, t.IsVerified, t.CreatedAt, t.UpdatedAt, t.DeletedAt,
	}
}
