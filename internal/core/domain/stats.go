package domain

// StreamStats are the aggregate delivery figures reported by the producer.
type StreamStats struct {
	ConnectedUsers      int `json:"connectedUsers"`
	TotalConnections    int `json:"totalConnections"`
	QueuedNotifications int `json:"queuedNotifications"`
}
