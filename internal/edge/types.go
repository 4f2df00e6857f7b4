package edge

import (
	"bytes"
	"encoding/json"
	"strings"
)

// FlexString decodes a JSON string, number or null into a string.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}
	*s = FlexString(strings.TrimSpace(string(data)))
	return nil
}

// CustomField is one {fieldApiId, value} pair on an Edge entity.
type CustomField struct {
	FieldAPIID string     `json:"fieldApiId"`
	Value      FlexString `json:"value"`
}

// CustomFields is an ordered list of custom field values.
type CustomFields []CustomField

// Lookup returns the value of the field with the given api id.
func (cf CustomFields) Lookup(apiID string) (string, bool) {
	for _, f := range cf {
		if f.FieldAPIID == apiID {
			return string(f.Value), true
		}
	}
	return "", false
}

// Account is an Edge account.
type Account struct {
	ID           string       `json:"id"`
	Name         string       `json:"accountName"`
	CustomFields CustomFields `json:"customFields"`
}

// Workspace is an Edge workspace under an account.
type Workspace struct {
	ID           string       `json:"id"`
	Name         string       `json:"workspaceName"`
	CustomFields CustomFields `json:"customFields"`
}

// Milestone is an Edge milestone under a workspace.
type Milestone struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	StartDate    string       `json:"startDate"`
	EndDate      string       `json:"endDate"`
	CustomFields CustomFields `json:"customFields"`
}

// User is an Edge user.
type User struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// FullName returns "First Last".
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
