package model

// ErrorResponse is the wire shape of every failure: {"error": …} with an
// optional details payload, or the active ban list for ban rejections.
type ErrorResponse struct {
	Error   string    `json:"error"`
	Details any       `json:"details,omitempty"`
	Bans    []BanInfo `json:"bans,omitempty"`
}

// Paginate wraps a page of user listings.
type Paginate struct {
	Page              int          `json:"page"`
	PerPage           int          `json:"perPage"`
	CurrentStartIndex int          `json:"currentStartIndex"`
	Count             int          `json:"count"`
	Total             int          `json:"total"`
	Data              []PublicUser `json:"data"`
}
