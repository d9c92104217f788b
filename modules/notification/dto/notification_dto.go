package dto

// MarkAsReadRequest marks specific notifications read
type MarkAsReadRequest struct {
	IDs []string `json:"ids"`
}

// UnreadCountResponse reports the number of unread notifications
type UnreadCountResponse struct {
	Unread int `json:"unread"`
}
