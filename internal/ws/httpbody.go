package ws

type ErrorResponse struct {
	Error string `json:"error" example:"room_id must be a non-negative integer"`
} // @name ErrorResponse
