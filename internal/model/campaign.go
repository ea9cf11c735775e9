package model

// CampaignStatus is the lifecycle state of a campaign.
type CampaignStatus string

const (
	CampaignPending   CampaignStatus = "Pending"
	CampaignActive    CampaignStatus = "Active"
	CampaignCompleted CampaignStatus = "Completed"
	CampaignOnHold    CampaignStatus = "On Hold"
)

// CampaignStatuses lists the statuses in display order.
var CampaignStatuses = []CampaignStatus{CampaignPending, CampaignActive, CampaignCompleted, CampaignOnHold}

// Valid reports whether s is one of the known statuses.
func (s CampaignStatus) Valid() bool {
	for _, v := range CampaignStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Campaign is a marketing campaign run under a client's product
// subscription.  Admin listings carry the owning client; a client's own
// listing carries only the product name.
type Campaign struct {
	ID        uint64         `json:"id_campaign"`
	Name      string         `json:"name"`
	Status    CampaignStatus `json:"status"`
	StartDate Date           `json:"start_date"`
	EndDate   Date           `json:"end_date"`
	ProductID uint64         `json:"id_product,omitempty"`
	Product   string         `json:"product,omitempty"`
	ClientID  uint64         `json:"id_user,omitempty"`
	Client    string         `json:"client,omitempty"`
}

// CampaignInput is the create/update payload.  Status is ignored by the
// backend on client-side requests, which always start as Pending.
type CampaignInput struct {
	Name      string         `json:"name"`
	ProductID uint64         `json:"id_product"`
	ClientID  uint64         `json:"id_user,omitempty"`
	Status    CampaignStatus `json:"status,omitempty"`
	StartDate Date           `json:"start_date"`
	EndDate   Date           `json:"end_date"`
}
