// Package rpc hands a serialized IR bundle to an out-of-process native
// code generator over gRPC, for projects whose oric.yaml emit.target
// names a "host:port" address instead of a file path.
package rpc

import (
	"context"
	"fmt"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const handoffSchema = `
syntax = "proto3";
package oric.emit.rpc;

message HandoffRequest {
  bytes bundle = 1;
}

message HandoffResponse {
  bool accepted = 1;
  string message = 2;
}

service IRHandoff {
  rpc Submit(HandoffRequest) returns (HandoffResponse);
}
`

const handoffSchemaFile = "oric_handoff.proto"

// Client dials a codegen service and submits serialized IR bundles to it.
type Client struct {
	conn   *grpc.ClientConn
	method *desc.MethodDescriptor
}

// Dial connects to target, a "host:port" address. The connection is
// plaintext: IR handoff is expected to run over a trusted local or
// sidecar link, not a public network.
func Dial(target string) (*Client, error) {
	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", target, err)
	}

	method, err := handoffMethod()
	if err != nil {
		conn.Close()
		return nil, err
	}

	return &Client{conn: conn, method: method}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Submit sends a serialized Bundle (see emit.Marshal) to the connected
// codegen service and reports whether it was accepted.
func (c *Client) Submit(ctx context.Context, bundleBytes []byte) (accepted bool, message string, err error) {
	reqMsg := dynamic.NewMessage(c.method.GetInputType())
	reqMsg.SetFieldByName("bundle", bundleBytes)

	respMsg := dynamic.NewMessage(c.method.GetOutputType())

	methodPath := "/" + c.method.GetService().GetFullyQualifiedName() + "/" + c.method.GetName()
	if err := c.conn.Invoke(ctx, methodPath, reqMsg, respMsg); err != nil {
		return false, "", fmt.Errorf("IR handoff RPC failed: %w", err)
	}

	accepted, _ = respMsg.GetFieldByName("accepted").(bool)
	message, _ = respMsg.GetFieldByName("message").(string)
	return accepted, message, nil
}

func handoffMethod() (*desc.MethodDescriptor, error) {
	parser := protoparse.Parser{
		Accessor: protoparse.FileContentsFromMap(map[string]string{
			handoffSchemaFile: handoffSchema,
		}),
	}
	fds, err := parser.ParseFiles(handoffSchemaFile)
	if err != nil {
		return nil, fmt.Errorf("parsing handoff schema: %w", err)
	}

	svc := fds[0].FindService("oric.emit.rpc.IRHandoff")
	if svc == nil {
		return nil, fmt.Errorf("handoff schema is missing service IRHandoff")
	}
	method := svc.FindMethodByName("Submit")
	if method == nil {
		return nil, fmt.Errorf("handoff schema is missing method Submit")
	}
	return method, nil
}
