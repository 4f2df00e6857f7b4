package report

// Column names of the sync report.
const (
	ColClientID          = "Client ID"
	ColCampaignID        = "Campaign ID"
	ColDropID            = "Drop ID"
	ColIOStatus          = "IO Status"
	ColCampaignStartDate = "Campaign Start Date"
	ColCampaignEndDate   = "Campaign End Date"
	ColCampaignName      = "Campaign Name"
	ColPositionPath      = "Position Path"
	ColDropDescription   = "Drop Description"
	ColStartDate         = "Start Date"
	ColEndDate           = "End Date"
	ColSoldAmount        = "Sold Amount"
	ColSalesRep          = "Sales Rep"
	ColCustomUnitFeature = "(Drop) Custom Unit Features"
	ColLineItemKPI       = "(Drop) Line Item KPI"
	ColWorkspaceID       = "(Campaign) CD Workspace ID"
	ColMilestoneID       = "(Drop) CD Milestone ID"
)

// RequiredColumns lists every column the reconciliation reads.
var RequiredColumns = []string{
	ColClientID,
	ColCampaignID,
	ColDropID,
	ColIOStatus,
	ColCampaignStartDate,
	ColCampaignEndDate,
	ColCampaignName,
	ColPositionPath,
	ColDropDescription,
	ColStartDate,
	ColEndDate,
	ColSoldAmount,
	ColSalesRep,
	ColCustomUnitFeature,
	ColLineItemKPI,
	ColWorkspaceID,
	ColMilestoneID,
}
