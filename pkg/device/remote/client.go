package remote

import (
	"context"
	"net/rpc"

	"github.com/pkg/errors"

	"uartscreen/pkg/proto"
)

func New(addr string) (proto.Control, error) {
	client, err := rpc.DialHTTP("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "dial %s", addr)
	}

	return &Client{rpc: client}, nil
}

type Client struct {
	rpc *rpc.Client
}

// Realign stops waiting once ctx is done, the remote realign runs to its end.
func (c *Client) Realign(ctx context.Context) error {
	call := c.rpc.Go("Service.Command", "realign", &Ack{}, nil)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-call.Done:
		return call.Error
	}
}

func (c *Client) Upload(rows []string) error {
	return c.rpc.Call("Service.Upload", &UploadRequest{Rows: rows}, &Ack{})
}

func (c *Client) Drain() ([]byte, error) {
	var resp DrainResponse
	if err := c.rpc.Call("Service.Drain", 0, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Close drops the connection, the display stays open on the server.
func (c *Client) Close() error {
	return c.rpc.Close()
}
