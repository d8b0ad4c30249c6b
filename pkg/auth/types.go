package auth

import "time"

// Credential is the stored OAuth session for a single Zoho identity,
// keyed by email. One document per identity in the oauth_users collection.
type Credential struct {
	Email        string    `bson:"email" json:"email"`
	AccessToken  string    `bson:"access_token" json:"access_token"`
	RefreshToken *string   `bson:"refresh_token,omitempty" json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `bson:"expires_at" json:"expires_at"`
	APIDomain    string    `bson:"api_domain" json:"api_domain"`
	Profile      Profile   `bson:"user_info" json:"user_info"`
}

// Refreshable reports whether the credential carries a refresh token.
// A nil refresh token means the provider never issued one; such a
// credential cannot be silently renewed.
func (c *Credential) Refreshable() bool {
	return c.RefreshToken != nil
}

// TokenSet is the result of a token-endpoint call (code exchange or refresh).
// RefreshToken is empty when the provider omits it from the response.
type TokenSet struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	APIDomain    string
}

// Profile groups the raw provider identity with the projected HR form fields.
// It is replaced wholesale on every completed callback.
type Profile struct {
	BasicInfo    UserInfo        `bson:"basic_info" json:"basic_info"`
	EmployeeForm EmployeeProfile `bson:"employee_form" json:"employee_form"`
}

// UserInfo is the identity returned by the provider's user-info endpoint.
type UserInfo struct {
	ZUID        int64  `bson:"zuid,omitempty" json:"ZUID,omitempty"`
	Email       string `bson:"email" json:"Email"`
	FirstName   string `bson:"first_name,omitempty" json:"First_Name,omitempty"`
	LastName    string `bson:"last_name,omitempty" json:"Last_Name,omitempty"`
	DisplayName string `bson:"display_name,omitempty" json:"Display_Name,omitempty"`
}

// EmployeeRecord is a raw Zoho People form record as returned by the
// records endpoint. Field names follow the form's display labels.
type EmployeeRecord struct {
	FirstName        string `json:"First Name"`
	Department       string `json:"Department"`
	RecordID         string `json:"recordId"`
	ReportingTo      string `json:"Reporting To"`
	Designation      string `json:"Designation"`
	ProductionStatus string `json:"Production Status"`
	EmployeeID       string `json:"EmployeeID"`
	MobilePhone      string `json:"Mobile Phone"`
}

// EmployeeProfile is the projection of an EmployeeRecord that gets persisted
// alongside the credential. See ProjectEmployee for the field mapping.
type EmployeeProfile struct {
	FirstName        string `bson:"first_name,omitempty" json:"first_name,omitempty"`
	Department       string `bson:"department,omitempty" json:"department,omitempty"`
	RecordID         string `bson:"record_id,omitempty" json:"record_id,omitempty"`
	Manager          string `bson:"manager,omitempty" json:"manager,omitempty"`
	Designation      string `bson:"designation,omitempty" json:"designation,omitempty"`
	ProductionStatus string `bson:"production_status,omitempty" json:"production_status,omitempty"`
	EmployeeID       string `bson:"employee_id,omitempty" json:"employee_id,omitempty"`
	Pmail            string `bson:"pmail,omitempty" json:"pmail,omitempty"`
	MobilePhone      string `bson:"mobile_phone,omitempty" json:"mobile_phone,omitempty"`
}

// IsZero reports whether the projection carries no data, which is what gets
// stored when the employee form lookup fails or returns nothing.
func (p EmployeeProfile) IsZero() bool {
	return p == EmployeeProfile{}
}

// Decision is the outcome of a silent-login check. Either the caller already
// holds a usable session (Authenticated with AccessToken set) or it must be
// sent to the provider consent screen (ConsentURL set).
type Decision struct {
	Authenticated bool
	AccessToken   string
	ConsentURL    string
}
