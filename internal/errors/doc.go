// Package errors is the structured error type shared by every layer of
// encounter-forge.
//
// Each error carries a Code, a message that is safe to show to a player, an
// optional cause and optional metadata. The same Code drives the gRPC status
// (ToGRPCError) and the HTTP status (Code.HTTPStatus), so orchestrators never
// think about transports.
//
// # Basic Usage
//
//	err := errors.NotFound("battle not found").WithMeta("battle_id", id)
//
//	if err := repo.Get(ctx, input); err != nil {
//	    return errors.Wrap(err, "failed to load encounter")
//	}
//
// Wrap keeps the code of an existing *Error; plain errors become INTERNAL.
// WrapWithCode forces a code, which is how generator failures become
// UNAVAILABLE.
//
// # Validation
//
//	vb := errors.NewValidationBuilder()
//	errors.ValidateRequired("enemyType", input.EnemyType, vb)
//	errors.ValidateRange("numberOfCreatures", input.NumberOfCreatures, 1, 20, vb)
//	if err := vb.Build(); err != nil {
//	    return nil, err
//	}
//
// The resulting INVALID_ARGUMENT error lists every failing field under the
// MetaValidationErrors key.
//
// # Layer guidelines
//
// Repositories return NotFound/AlreadyExists and wrap driver errors.
// Orchestrators validate input and wrap collaborator failures with business
// context. Handlers only convert.
package errors
