// Package constants provides shared constants used throughout the fattailsync codebase.
// This includes timeouts, limits, file permissions, and the default names that
// tie report columns and custom fields to the entities they describe.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for a single HTTP request to either remote system
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultPollInterval is how long to wait between report job status checks
	DefaultPollInterval = 5 * time.Second

	// DefaultReportTimeout is the budget for a report job to reach the done state
	DefaultReportTimeout = 300 * time.Second

	// RetryBackoff is the base backoff duration for retries
	RetryBackoff = 200 * time.Millisecond

	// MaxRetryBackoff is the maximum backoff duration for retries
	MaxRetryBackoff = 5 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants define various limits and capacities
const (
	// MaxRetries is the maximum number of retry attempts for idempotent requests
	MaxRetries = 3

	// DefaultPageSize is the number of records requested per page from list endpoints
	DefaultPageSize = 100

	// MaxPageSize is the largest page size the collaboration platform accepts
	MaxPageSize = 500

	// DefaultRateLimit is the default number of collaboration platform requests per second
	DefaultRateLimit = 10

	// BurstSize is the token bucket burst size for rate limiting
	BurstSize = 5
)

// Default values
const (
	// DefaultTmpDir is where downloaded report CSVs are staged
	DefaultTmpDir = "tmp/"

	// DefaultWorkspaceProperty is the order dynamic property holding the workspace hash
	DefaultWorkspaceProperty = "CD Workspace ID"

	// DefaultMilestoneProperty is the drop dynamic property holding the milestone hash
	DefaultMilestoneProperty = "CD Milestone ID"

	// DefaultDeletedPattern matches workspace names that mark a deleted workspace
	DefaultDeletedPattern = `(?i)\bdeleted\b`

	// JobStatusDone is the report job status that signals completion (compared case-insensitively)
	JobStatusDone = "done"
)

// Custom field API ids used as correlation keys and payload fields on the collaboration platform
const (
	FieldClientID           = "c_client_id"
	FieldOrderID            = "c_order_id"
	FieldDropID             = "c_drop_id"
	FieldCampaignStatus     = "c_campaign_status"
	FieldCampaignStartDate  = "c_campaign_start_date"
	FieldCampaignEndDate    = "c_campaign_end_date"
	FieldCustomUnitFeatures = "c_custom_unit_features"
	FieldKPI                = "c_kpi"
	FieldDropCost           = "c_drop_cost_new"
)
