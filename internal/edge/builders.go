package edge

// Field is a custom field assignment used when building requests.
type Field struct {
	APIID string
	Value string
}

// F builds a Field.
func F(apiID, value string) Field {
	return Field{APIID: apiID, Value: value}
}

// NewCustomFields converts fields into the wire representation, keeping their order.
func NewCustomFields(fields ...Field) CustomFields {
	out := make(CustomFields, 0, len(fields))
	for _, f := range fields {
		out = append(out, CustomField{FieldAPIID: f.APIID, Value: FlexString(f.Value)})
	}
	return out
}

// AccountRequest is the payload of POST accounts.
type AccountRequest struct {
	AccountName  string       `json:"accountName"`
	CustomFields CustomFields `json:"customFields"`
}

// WorkspaceRequest is the payload of POST accounts/{id}/workspaces.
type WorkspaceRequest struct {
	WorkspaceName     string       `json:"workspaceName"`
	WorkspaceTemplate string       `json:"workspaceTemplate,omitempty"`
	CustomFields      CustomFields `json:"customFields"`
}

// MilestoneRequest is the payload of POST workspaces/{id}/milestones and
// milestones/{id}/updateDetail.
type MilestoneRequest struct {
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	StartDate    string       `json:"startDate"`
	EndDate      string       `json:"endDate"`
	CustomFields CustomFields `json:"customFields"`
}

// AddUsersRequest is the payload of POST workspaces/{id}/roles/{id}/addUsers.
type AddUsersRequest struct {
	Users         []string `json:"users"`
	ClearExisting bool     `json:"clearExisting"`
}

// NewAccountRequest shapes an account creation payload.
func NewAccountRequest(name string, fields ...Field) AccountRequest {
	return AccountRequest{AccountName: name, CustomFields: NewCustomFields(fields...)}
}

// NewWorkspaceRequest shapes a workspace creation payload.
func NewWorkspaceRequest(name, template string, fields ...Field) WorkspaceRequest {
	return WorkspaceRequest{
		WorkspaceName:     name,
		WorkspaceTemplate: template,
		CustomFields:      NewCustomFields(fields...),
	}
}

// NewMilestoneRequest shapes a milestone creation or update payload.
func NewMilestoneRequest(title, description, startDate, endDate string, fields ...Field) MilestoneRequest {
	return MilestoneRequest{
		Title:        title,
		Description:  description,
		StartDate:    startDate,
		EndDate:      endDate,
		CustomFields: NewCustomFields(fields...),
	}
}
