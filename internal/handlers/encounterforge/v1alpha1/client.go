package v1alpha1

import (
	"context"

	"google.golang.org/grpc"
)

// EncounterServiceClient is the client API for EncounterService
type EncounterServiceClient interface {
	GenerateEncounter(ctx context.Context, in *GenerateEncounterRequest, opts ...grpc.CallOption) (*EncounterResponse, error)
	GenerateRandomEncounter(ctx context.Context, in *GenerateRandomEncounterRequest, opts ...grpc.CallOption) (*EncounterResponse, error)
	GetEncounter(ctx context.Context, in *GetEncounterRequest, opts ...grpc.CallOption) (*EncounterResponse, error)
	ListEncounters(ctx context.Context, in *ListEncountersRequest, opts ...grpc.CallOption) (*ListEncountersResponse, error)
	ListEnemyTypes(ctx context.Context, in *ListEnemyTypesRequest, opts ...grpc.CallOption) (*ListEnemyTypesResponse, error)
	StartBattle(ctx context.Context, in *StartBattleRequest, opts ...grpc.CallOption) (*BattleResponse, error)
	GetBattle(ctx context.Context, in *GetBattleRequest, opts ...grpc.CallOption) (*BattleResponse, error)
	ApplyDamage(ctx context.Context, in *ApplyDamageRequest, opts ...grpc.CallOption) (*ApplyDamageResponse, error)
	FinishBattle(ctx context.Context, in *FinishBattleRequest, opts ...grpc.CallOption) (*FinishBattleResponse, error)
}

type encounterServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewEncounterServiceClient returns a client that always calls with the json codec
func NewEncounterServiceClient(cc grpc.ClientConnInterface) EncounterServiceClient {
	return &encounterServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, fullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *encounterServiceClient) GenerateEncounter(ctx context.Context, in *GenerateEncounterRequest, opts ...grpc.CallOption) (*EncounterResponse, error) {
	return invoke[EncounterResponse](ctx, c.cc, "GenerateEncounter", in, opts)
}

func (c *encounterServiceClient) GenerateRandomEncounter(ctx context.Context, in *GenerateRandomEncounterRequest, opts ...grpc.CallOption) (*EncounterResponse, error) {
	return invoke[EncounterResponse](ctx, c.cc, "GenerateRandomEncounter", in, opts)
}

func (c *encounterServiceClient) GetEncounter(ctx context.Context, in *GetEncounterRequest, opts ...grpc.CallOption) (*EncounterResponse, error) {
	return invoke[EncounterResponse](ctx, c.cc, "GetEncounter", in, opts)
}

func (c *encounterServiceClient) ListEncounters(ctx context.Context, in *ListEncountersRequest, opts ...grpc.CallOption) (*ListEncountersResponse, error) {
	return invoke[ListEncountersResponse](ctx, c.cc, "ListEncounters", in, opts)
}

func (c *encounterServiceClient) ListEnemyTypes(ctx context.Context, in *ListEnemyTypesRequest, opts ...grpc.CallOption) (*ListEnemyTypesResponse, error) {
	return invoke[ListEnemyTypesResponse](ctx, c.cc, "ListEnemyTypes", in, opts)
}

func (c *encounterServiceClient) StartBattle(ctx context.Context, in *StartBattleRequest, opts ...grpc.CallOption) (*BattleResponse, error) {
	return invoke[BattleResponse](ctx, c.cc, "StartBattle", in, opts)
}

func (c *encounterServiceClient) GetBattle(ctx context.Context, in *GetBattleRequest, opts ...grpc.CallOption) (*BattleResponse, error) {
	return invoke[BattleResponse](ctx, c.cc, "GetBattle", in, opts)
}

func (c *encounterServiceClient) ApplyDamage(ctx context.Context, in *ApplyDamageRequest, opts ...grpc.CallOption) (*ApplyDamageResponse, error) {
	return invoke[ApplyDamageResponse](ctx, c.cc, "ApplyDamage", in, opts)
}

func (c *encounterServiceClient) FinishBattle(ctx context.Context, in *FinishBattleRequest, opts ...grpc.CallOption) (*FinishBattleResponse, error) {
	return invoke[FinishBattleResponse](ctx, c.cc, "FinishBattle", in, opts)
}
