package dropspot_client

import (
	"github.com/dropspot/dropspot/go/clients"
)

// Client talks to the dropspot REST API. Authenticated calls pick up the
// bearer credential from the shared token source on every request.
type Client struct {
	*clients.BaseClient
}

func NewClient(baseURL string, tokens clients.TokenSource) *Client {
	client := &Client{
		BaseClient: clients.NewBaseClient(baseURL),
	}

	client.SetHeader(ContentTypeHeader, ContentTypeJSON)
	client.SetTokenSource(tokens)

	return client
}
