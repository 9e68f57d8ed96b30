package core

// EntityAmount is an amount attributed to a named category or source.
type EntityAmount struct {
	Name   string `json:"name"`
	Amount Money  `json:"amount"`
}

// DashboardStats is the derived dashboard view. It is recomputed on
// every query and never persisted.
type DashboardStats struct {
	TotalToday      Money        `json:"totalToday"`
	TotalThisMonth  Money        `json:"totalThisMonth"`
	TotalThisYear   Money        `json:"totalThisYear"`
	HighestCategory EntityAmount `json:"highestCategory"`
	TopSource       EntityAmount `json:"topSource"`
}

// SeriesPoint is one chart bucket: a label plus the summed amount.
type SeriesPoint struct {
	Label  string `json:"label"`
	Amount Money  `json:"amount"`
}
