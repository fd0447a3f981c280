package models

// WipSnapshot is the work-in-progress position of one segment.
type WipSnapshot struct {
	Capacity      Number `json:"capacity"`
	InputQty      Number `json:"inputQty"`
	TotalAchieved Number `json:"totalAchieved"`
	WIP           Number `json:"wip"`
}

// WipQuery selects the segment a WIP snapshot is fetched for.
type WipQuery struct {
	Factory          string
	AssignedBuilding string
	Line             string
	Buyer            string
	Style            string
	Date             string
}
