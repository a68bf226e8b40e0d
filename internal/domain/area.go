package domain

// Area is a delivery zone grouping customers for a single round.
type Area struct {
	AreaID   int    `json:"area_id"`
	AreaName string `json:"area_name"`
}
