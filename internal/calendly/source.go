package calendly

import "dashboard-backend/internal/scheduling"

const SourceName = "calendly"

var _ scheduling.Source = (*Client)(nil)

func (c *Client) Name() string { return SourceName }
