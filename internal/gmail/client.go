package gmail

import (
	"context"
	"fmt"
	"net/http"

	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

const gmailUser = "me"

// Client is the Gmail implementation of MessageAPI.
type Client struct {
	srv *gmailapi.Service
}

// NewClient builds a Gmail client from an authenticated HTTP client.
func NewClient(ctx context.Context, httpClient *http.Client) (*Client, error) {
	srv, err := gmailapi.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %w", err)
	}
	return &Client{srv: srv}, nil
}

// ListMessages returns the IDs of up to maxResults messages matching the
// query. An empty query lists the mailbox without a filter.
func (c *Client) ListMessages(ctx context.Context, maxResults int64, query string) ([]string, error) {
	call := c.srv.Users.Messages.List(gmailUser).MaxResults(maxResults).Context(ctx)
	if query != "" {
		call = call.Q(query)
	}
	res, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	ids := make([]string, 0, len(res.Messages))
	for _, m := range res.Messages {
		ids = append(ids, m.Id)
	}
	return ids, nil
}

// GetMessage fetches the full message, including the nested body payload.
func (c *Client) GetMessage(ctx context.Context, id string) (*gmailapi.Message, error) {
	msg, err := c.srv.Users.Messages.Get(gmailUser, id).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("getting message %s: %w", id, err)
	}
	return msg, nil
}
