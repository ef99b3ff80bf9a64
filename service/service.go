// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/rpc/v2"

	log "github.com/inconshreveable/log15"

	"github.com/ava-labs/avalanchego/api"
	"github.com/ava-labs/avalanchego/utils/formatting"

	cjson "github.com/ava-labs/avalanchego/utils/json"

	"github.com/ava-labs/movecodec/exchange"
	"github.com/ava-labs/movecodec/layout"
	"github.com/ava-labs/movecodec/serializer"
	"github.com/ava-labs/movecodec/values"
)

// Name is the name the service is registered under.
const Name = "movecodec"

var errNoExchange = errors.New("no identifier exchange is configured")

// Service encodes and decodes values over JSON-RPC.
type Service struct {
	exchange *exchange.Store
	log      log.Logger
}

// NewService returns a service that uses [ex] for requests with exchange
// enabled. [ex] may be nil, in which case such requests fail.
func NewService(ex *exchange.Store) *Service {
	return &Service{
		exchange: ex,
		log:      log.New("module", "service"),
	}
}

// NewHandler serves [s] as JSON-RPC.
func NewHandler(s *Service) (http.Handler, error) {
	server := rpc.NewServer()
	codec := cjson.NewCodec()
	server.RegisterCodec(codec, "application/json")
	server.RegisterCodec(codec, "application/json;charset=UTF-8")
	return server, server.RegisterService(s, Name)
}

// EncodeArgs are arguments for Encode
type EncodeArgs struct {
	Layout   string              `json:"layout"`
	Value    json.RawMessage     `json:"value"`
	Exchange bool                `json:"exchange"`
	Encoding formatting.Encoding `json:"encoding"`
}

// EncodeReply is the reply from Encode
type EncodeReply struct {
	Bytes    string              `json:"bytes"`
	Encoding formatting.Encoding `json:"encoding"`
}

// Encode serializes [args.Value] against [args.Layout]. With [args.Exchange]
// set, marked u64 and u128 leaves are swapped for identifiers.
func (s *Service) Encode(_ *http.Request, args *EncodeArgs, reply *EncodeReply) error {
	l, err := layout.Parse(args.Layout)
	if err != nil {
		return err
	}
	v, err := UnmarshalValue(args.Value, l)
	if err != nil {
		return err
	}

	var b []byte
	if args.Exchange {
		if s.exchange == nil {
			return errNoExchange
		}
		b, err = serializer.SerializeMarked(v, l, s.exchange)
	} else {
		b, err = serializer.SimpleSerialize(v, l)
	}
	if err != nil {
		s.log.Debug("encode failed", "layout", l, "error", err)
		return err
	}

	reply.Bytes, err = formatting.Encode(args.Encoding, b)
	if err != nil {
		return fmt.Errorf("couldn't encode bytes: %w", err)
	}
	reply.Encoding = args.Encoding
	return nil
}

// DecodeArgs are arguments for Decode
type DecodeArgs struct {
	Layout   string              `json:"layout"`
	Bytes    string              `json:"bytes"`
	Exchange bool                `json:"exchange"`
	Encoding formatting.Encoding `json:"encoding"`
}

// ValueReply holds a value rendered with MarshalValue
type ValueReply struct {
	Value json.RawMessage `json:"value"`
}

// Decode deserializes [args.Bytes] against [args.Layout]. With
// [args.Exchange] set, identifiers at marked leaves are claimed.
func (s *Service) Decode(_ *http.Request, args *DecodeArgs, reply *ValueReply) error {
	l, err := layout.Parse(args.Layout)
	if err != nil {
		return err
	}
	b, err := formatting.Decode(args.Encoding, args.Bytes)
	if err != nil {
		return fmt.Errorf("couldn't decode bytes: %w", err)
	}

	var v values.Value
	if args.Exchange {
		if s.exchange == nil {
			return errNoExchange
		}
		v, err = serializer.DeserializeMarked(b, l, s.exchange)
	} else {
		v, err = serializer.SimpleDeserialize(b, l)
	}
	if err != nil {
		s.log.Debug("decode failed", "layout", l, "error", err)
		return err
	}

	reply.Value, err = MarshalValue(v)
	return err
}

// ClaimArgs are arguments for Claim
type ClaimArgs struct {
	ID   cjson.Uint64 `json:"id"`
	Wide bool         `json:"wide"`
}

// Claim returns the value the exchange currently maps to an identifier.
// [args.Wide] selects a u128 identifier instead of a u64 one.
func (s *Service) Claim(_ *http.Request, args *ClaimArgs, reply *ValueReply) error {
	if s.exchange == nil {
		return errNoExchange
	}
	var id values.Value = values.U64(args.ID)
	if args.Wide {
		id = values.NewU128(0, uint64(args.ID))
	}
	v, err := s.exchange.Claim(id)
	if err != nil {
		return err
	}
	reply.Value, err = MarshalValue(v)
	return err
}

// Commit flushes pending mappings of the exchange.
func (s *Service) Commit(_ *http.Request, _ *struct{}, _ *api.EmptyReply) error {
	if s.exchange == nil {
		return errNoExchange
	}
	s.log.Info("committing identifier table")
	return s.exchange.Commit()
}

// Abort discards the mappings recorded since the last commit.
func (s *Service) Abort(_ *http.Request, _ *struct{}, _ *api.EmptyReply) error {
	if s.exchange == nil {
		return errNoExchange
	}
	s.log.Info("aborting pending identifiers")
	return s.exchange.Abort()
}
