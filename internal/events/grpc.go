package events

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "stockdash.UIEvents"

const subscribeMethod = "/" + ServiceName + "/Subscribe"

// grpcBuffer is the per-stream event buffer.
const grpcBuffer = 4096

// UIEventsServer is the server API for the UIEvents service.
type UIEventsServer interface {
	Subscribe(*emptypb.Empty, grpc.ServerStreamingServer[structpb.Struct]) error
}

// ServiceDesc describes the UIEvents service. It uses the well-known Empty
// and Struct messages, so no generated code is needed.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*UIEventsServer)(nil),
	Methods:     []grpc.MethodDesc{},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Subscribe",
			Handler:       subscribeHandler,
			ServerStreams: true,
		},
	},
	Metadata: "stockdash/events.proto",
}

func subscribeHandler(srv any, stream grpc.ServerStream) error {
	m := new(emptypb.Empty)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(UIEventsServer).Subscribe(m, &grpc.GenericServerStream[emptypb.Empty, structpb.Struct]{ServerStream: stream})
}

// Server implements the UIEvents Subscribe stream on top of a Hub.
type Server struct {
	hub *Hub
	log *slog.Logger
}

// NewServer creates a gRPC server backed by hub.
func NewServer(hub *Hub, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{hub: hub, log: log}
}

// RegisterGRPC registers the service on gs.
func (s *Server) RegisterGRPC(gs *grpc.Server) {
	gs.RegisterService(&ServiceDesc, s)
}

// Subscribe sends the current snapshot, then streams new events until the
// client goes away.
func (s *Server) Subscribe(_ *emptypb.Empty, stream grpc.ServerStreamingServer[structpb.Struct]) error {
	subID, ch, snapshot := s.hub.Subscribe(grpcBuffer)
	defer s.hub.Unsubscribe(subID)

	send := func(evt Event) error {
		st, err := evt.ToStruct()
		if err != nil {
			return status.Errorf(codes.Internal, "encode event: %v", err)
		}
		return stream.Send(st)
	}

	for _, evt := range snapshot {
		if err := send(evt); err != nil {
			return err
		}
	}

	s.log.Info("grpc client subscribed", "subID", subID, "snapshot", len(snapshot))

	ctx := stream.Context()
	for {
		select {
		case <-ctx.Done():
			s.log.Info("grpc client disconnected", "subID", subID)
			return nil
		case evt, ok := <-ch:
			if !ok {
				return status.Error(codes.ResourceExhausted, "subscriber fell behind")
			}
			if err := send(evt); err != nil {
				return err
			}
		}
	}
}

// Client follows a remote UIEvents stream.
type Client struct {
	addr string
	opts []grpc.DialOption
	log  *slog.Logger
}

// NewClient creates a client targeting addr. Without options the
// connection is insecure.
func NewClient(addr string, log *slog.Logger, opts ...grpc.DialOption) *Client {
	if log == nil {
		log = slog.Default()
	}
	if len(opts) == 0 {
		opts = []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	}
	return &Client{addr: addr, opts: opts, log: log}
}

// Watch connects and calls fn for every event until ctx is cancelled, the
// stream ends or fn returns an error.
func (c *Client) Watch(ctx context.Context, fn func(Event) error) error {
	conn, err := grpc.NewClient(c.addr, c.opts...)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", c.addr, err)
	}
	defer conn.Close()

	c.log.Info("watching ui events", "addr", c.addr)
	return Watch(ctx, conn, fn)
}

// Watch runs the Subscribe stream over an existing connection.
func Watch(ctx context.Context, cc grpc.ClientConnInterface, fn func(Event) error) error {
	stream, err := cc.NewStream(ctx, &ServiceDesc.Streams[0], subscribeMethod)
	if err != nil {
		return fmt.Errorf("starting stream: %w", err)
	}
	if err := stream.SendMsg(&emptypb.Empty{}); err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	if err := stream.CloseSend(); err != nil {
		return fmt.Errorf("closing send: %w", err)
	}

	for {
		st := new(structpb.Struct)
		err := stream.RecvMsg(st)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("receiving event: %w", err)
		}
		evt, err := FromStruct(st)
		if err != nil {
			return err
		}
		if err := fn(evt); err != nil {
			return err
		}
	}
}
