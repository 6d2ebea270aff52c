package generation

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// #region wire
const (
	serviceName    = "agri.v1.Generation"
	generateMethod = "/" + serviceName + "/Generate"
)

// ErrMalformed is returned when a backend reply lacks the expected fields.
var ErrMalformed = errors.New("malformed generation response")

func encodeRequest(req Request) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"prompt":   req.Prompt,
		"language": req.Language,
	})
}

func decodeResult(msg *structpb.Struct) (Result, error) {
	fields := msg.GetFields()
	text, ok := fields["text"]
	if !ok {
		return Result{}, fmt.Errorf("decode reply: missing text: %w", ErrMalformed)
	}
	if _, isString := text.GetKind().(*structpb.Value_StringValue); !isString {
		return Result{}, fmt.Errorf("decode reply: text is not a string: %w", ErrMalformed)
	}
	return Result{Text: text.GetStringValue(), Model: fields["model"].GetStringValue()}, nil
}

// #endregion wire

// #region client
// GRPCClient calls a remote generation service over gRPC.
type GRPCClient struct {
	conn *grpc.ClientConn
}

// NewGRPCClient connects to the generation service at addr.
func NewGRPCClient(addr string) (*GRPCClient, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &GRPCClient{conn: conn}, nil
}

// NewGRPCClientWithConn wraps an existing connection. Used by tests over bufconn.
func NewGRPCClientWithConn(conn *grpc.ClientConn) *GRPCClient {
	return &GRPCClient{conn: conn}
}

// Close shuts down the gRPC connection.
func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

// Generate sends one prompt to the remote service.
func (c *GRPCClient) Generate(ctx context.Context, req Request) (Result, error) {
	in, err := encodeRequest(req)
	if err != nil {
		return Result{}, fmt.Errorf("encode request: %w", err)
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, generateMethod, in, out); err != nil {
		return Result{}, fmt.Errorf("grpc generate: %w", err)
	}
	return decodeResult(out)
}

// #endregion client

// #region server
type generationServer interface {
	Generate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

type serverAdapter struct {
	gen Generator
}

func (s serverAdapter) Generate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	fields := in.GetFields()
	res, err := s.gen.Generate(ctx, Request{
		Prompt:   fields["prompt"].GetStringValue(),
		Language: fields["language"].GetStringValue(),
	})
	if err != nil {
		return nil, statusFor(err)
	}
	return structpb.NewStruct(map[string]any{"text": res.Text, "model": res.Model})
}

// statusFor carries the failure kind across the wire so clients classify it
// the same way the server did.
func statusFor(err error) error {
	if st, ok := status.FromError(err); ok && st.Code() != codes.Unknown {
		return err
	}
	code := codes.Unavailable
	switch Classify(err, 0).Kind {
	case KindTimeout:
		code = codes.DeadlineExceeded
	case KindCancelled:
		code = codes.Canceled
	case KindQuota:
		code = codes.ResourceExhausted
	case KindMalformed:
		code = codes.DataLoss
	}
	return status.Error(code, err.Error())
}

func generateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	s := srv.(generationServer)
	if interceptor == nil {
		return s.Generate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: generateMethod}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return s.Generate(ctx, req.(*structpb.Struct))
	})
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*generationServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Generate", Handler: generateHandler},
	},
	Streams: []grpc.StreamDesc{},
}

// RegisterServer exposes gen as the generation service on s.
func RegisterServer(s grpc.ServiceRegistrar, gen Generator) {
	s.RegisterService(&serviceDesc, serverAdapter{gen: gen})
}

// #endregion server
