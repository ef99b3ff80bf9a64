// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package client

import (
	"context"
	"encoding/json"

	"github.com/ava-labs/avalanchego/api"
	"github.com/ava-labs/avalanchego/utils/formatting"
	"github.com/ava-labs/avalanchego/utils/rpc"

	cjson "github.com/ava-labs/avalanchego/utils/json"

	"github.com/ava-labs/movecodec/service"
)

// Client defines movecodec client operations.
type Client interface {
	// Encode serializes a JSON value against a layout
	Encode(ctx context.Context, layout string, value json.RawMessage, exchange bool) ([]byte, error)

	// Decode deserializes bytes against a layout into a JSON value
	Decode(ctx context.Context, layout string, b []byte, exchange bool) (json.RawMessage, error)

	// Claim fetches the value behind an exchange identifier
	Claim(ctx context.Context, id uint64, wide bool) (json.RawMessage, error)

	// Commit persists recorded identifiers
	Commit(ctx context.Context) error

	// Abort drops identifiers recorded since the last commit
	Abort(ctx context.Context) error
}

// New creates a new client object.
func New(uri string) Client {
	req := rpc.NewEndpointRequester(uri)
	return &client{req: req}
}

type client struct {
	req rpc.EndpointRequester
}

func (cli *client) Encode(ctx context.Context, layout string, value json.RawMessage, exchange bool) ([]byte, error) {
	resp := new(service.EncodeReply)
	err := cli.req.SendRequest(ctx,
		service.Name+".encode",
		&service.EncodeArgs{
			Layout:   layout,
			Value:    value,
			Exchange: exchange,
			Encoding: formatting.Hex,
		},
		resp,
	)
	if err != nil {
		return nil, err
	}
	return formatting.Decode(resp.Encoding, resp.Bytes)
}

func (cli *client) Decode(ctx context.Context, layout string, b []byte, exchange bool) (json.RawMessage, error) {
	bytes, err := formatting.Encode(formatting.Hex, b)
	if err != nil {
		return nil, err
	}

	resp := new(service.ValueReply)
	err = cli.req.SendRequest(ctx,
		service.Name+".decode",
		&service.DecodeArgs{
			Layout:   layout,
			Bytes:    bytes,
			Exchange: exchange,
			Encoding: formatting.Hex,
		},
		resp,
	)
	if err != nil {
		return nil, err
	}
	return resp.Value, nil
}

func (cli *client) Claim(ctx context.Context, id uint64, wide bool) (json.RawMessage, error) {
	resp := new(service.ValueReply)
	err := cli.req.SendRequest(ctx,
		service.Name+".claim",
		&service.ClaimArgs{ID: cjson.Uint64(id), Wide: wide},
		resp,
	)
	if err != nil {
		return nil, err
	}
	return resp.Value, nil
}

func (cli *client) Commit(ctx context.Context) error {
	return cli.req.SendRequest(ctx, service.Name+".commit", struct{}{}, &api.EmptyReply{})
}

func (cli *client) Abort(ctx context.Context) error {
	return cli.req.SendRequest(ctx, service.Name+".abort", struct{}{}, &api.EmptyReply{})
}
