package grpctransport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/driano7/XocoCafe-sub000/internal/service/services/ticketsvc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	ticketServiceName   = "ticket.v1.TicketService"
	resolveTicketMethod = "/" + ticketServiceName + "/ResolveTicket"
)

// TicketServiceServer is the server API of ticket.v1.TicketService. The request
// is the raw identifier, the response the same envelope the HTTP API serves.
type TicketServiceServer interface {
	ResolveTicket(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error)
}

func resolveTicketHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TicketServiceServer).ResolveTicket(ctx, in)
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: resolveTicketMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TicketServiceServer).ResolveTicket(ctx, req.(*wrapperspb.StringValue))
	}

	return interceptor(ctx, in, info, handler)
}

var ticketServiceDesc = grpc.ServiceDesc{
	ServiceName: ticketServiceName,
	HandlerType: (*TicketServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ResolveTicket",
			Handler:    resolveTicketHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "ticket/v1/ticket.proto",
}

// RegisterTicketServiceServer registers srv on s.
func RegisterTicketServiceServer(s grpc.ServiceRegistrar, srv TicketServiceServer) {
	s.RegisterService(&ticketServiceDesc, srv)
}

// ResolveTicket calls ticket.v1.TicketService/ResolveTicket on cc.
func ResolveTicket(
	ctx context.Context,
	cc grpc.ClientConnInterface,
	identifier string,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := cc.Invoke(ctx, resolveTicketMethod, wrapperspb.String(identifier), out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

// TicketServer implements the gRPC TicketService.
type TicketServer struct {
	service service
}

// NewTicketServer creates a new TicketServer.
func NewTicketServer(service service) *TicketServer {
	return &TicketServer{
		service: service,
	}
}

func codeFor(err error) codes.Code {
	switch {
	case errors.Is(err, ticketsvc.ErrMissingIdentifier):
		return codes.InvalidArgument
	case errors.Is(err, ticketsvc.ErrOrderNotFound):
		return codes.NotFound
	default:
		return codes.Internal
	}
}

// ResolveTicket handles the resolve ticket gRPC request.
func (s *TicketServer) ResolveTicket(
	ctx context.Context,
	req *wrapperspb.StringValue,
) (*structpb.Struct, error) {
	res, err := s.service.ResolveTicket(ctx, req.GetValue())
	if err != nil {
		code := codeFor(err)
		if code == codes.Internal {
			slog.Error("Error resolving ticket over gRPC", "error", err)
		}

		return nil, status.Error(code, s.service.FailureMessage(err))
	}

	data, err := json.Marshal(res)
	if err != nil {
		slog.Error("Error marshaling ticket envelope", "error", err)

		return nil, status.Error(codes.Internal, s.service.FailureMessage(err))
	}

	out := new(structpb.Struct)
	if err := protojson.Unmarshal(data, out); err != nil {
		slog.Error("Error converting ticket envelope to struct", "error", err)

		return nil, status.Error(codes.Internal, s.service.FailureMessage(err))
	}

	return out, nil
}
