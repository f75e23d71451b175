package v1alpha1

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "encounterforge.v1alpha1.EncounterService"

// EncounterServiceServer is the server API for EncounterService
type EncounterServiceServer interface {
	GenerateEncounter(context.Context, *GenerateEncounterRequest) (*EncounterResponse, error)
	GenerateRandomEncounter(context.Context, *GenerateRandomEncounterRequest) (*EncounterResponse, error)
	GetEncounter(context.Context, *GetEncounterRequest) (*EncounterResponse, error)
	ListEncounters(context.Context, *ListEncountersRequest) (*ListEncountersResponse, error)
	ListEnemyTypes(context.Context, *ListEnemyTypesRequest) (*ListEnemyTypesResponse, error)
	StartBattle(context.Context, *StartBattleRequest) (*BattleResponse, error)
	GetBattle(context.Context, *GetBattleRequest) (*BattleResponse, error)
	ApplyDamage(context.Context, *ApplyDamageRequest) (*ApplyDamageResponse, error)
	FinishBattle(context.Context, *FinishBattleRequest) (*FinishBattleResponse, error)
}

// EncounterServiceDesc describes EncounterService for grpc.Server.RegisterService.
// Messages travel with the json codec.
var EncounterServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*EncounterServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("GenerateEncounter", EncounterServiceServer.GenerateEncounter),
		unary("GenerateRandomEncounter", EncounterServiceServer.GenerateRandomEncounter),
		unary("GetEncounter", EncounterServiceServer.GetEncounter),
		unary("ListEncounters", EncounterServiceServer.ListEncounters),
		unary("ListEnemyTypes", EncounterServiceServer.ListEnemyTypes),
		unary("StartBattle", EncounterServiceServer.StartBattle),
		unary("GetBattle", EncounterServiceServer.GetBattle),
		unary("ApplyDamage", EncounterServiceServer.ApplyDamage),
		unary("FinishBattle", EncounterServiceServer.FinishBattle),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "encounterforge/v1alpha1/encounter.json",
}

// RegisterEncounterServiceServer registers srv with s
func RegisterEncounterServiceServer(s grpc.ServiceRegistrar, srv EncounterServiceServer) {
	s.RegisterService(&EncounterServiceDesc, srv)
}

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

// unary builds the method descriptor for one request/response call
func unary[Req, Resp any](
	name string,
	call func(EncounterServiceServer, context.Context, *Req) (*Resp, error),
) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(EncounterServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: fullMethod(name),
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(EncounterServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}
