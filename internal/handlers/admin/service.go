// Package admin serves the read-only world inspection grpc service
package admin

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified grpc service name.
const ServiceName = "rpgmud.admin.v1.WorldService"

const (
	getCharacterMethod = "/" + ServiceName + "/GetCharacter"
	listAreasMethod    = "/" + ServiceName + "/ListAreas"
)

// WorldServiceServer is the server side of WorldService. Requests and
// responses are free-form structs.
type WorldServiceServer interface {
	// GetCharacter takes {"name": "<player>"} or {"uuid": "<npc uuid>"}.
	GetCharacter(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListAreas(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// WorldServiceDesc describes WorldService for grpc registration.
var WorldServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*WorldServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetCharacter", Handler: getCharacterHandler},
		{MethodName: "ListAreas", Handler: listAreasHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "rpgmud/admin/v1/world.proto",
}

// RegisterWorldServiceServer registers srv on s.
func RegisterWorldServiceServer(s grpc.ServiceRegistrar, srv WorldServiceServer) {
	s.RegisterService(&WorldServiceDesc, srv)
}

func getCharacterHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(WorldServiceServer).GetCharacter(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: getCharacterMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(WorldServiceServer).GetCharacter(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func listAreasHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(WorldServiceServer).ListAreas(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: listAreasMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(WorldServiceServer).ListAreas(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// WorldServiceClient calls WorldService.
type WorldServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewWorldServiceClient creates a client on cc.
func NewWorldServiceClient(cc grpc.ClientConnInterface) *WorldServiceClient {
	return &WorldServiceClient{cc: cc}
}

// GetCharacter fetches a character snapshot.
func (c *WorldServiceClient) GetCharacter(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, getCharacterMethod, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAreas lists the loaded areas.
func (c *WorldServiceClient) ListAreas(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, listAreasMethod, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
