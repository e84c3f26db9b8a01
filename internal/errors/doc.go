// Package errors is the structured error type shared by the engine.
//
// Every error carries a Code, a message, an optional cause, and free-form
// metadata. The engine maps its failure classes onto codes:
//
//   - InvalidArgument: bad values handed to constructors (non-finite
//     attribute base or delta, clone of an entity without a reference)
//   - FailedPrecondition: inconsistent definitions found at load time
//     (missing or circular attribute formula dependencies) and game state
//     built before the game settings were loaded
//   - Unimplemented: a factory that cannot create the entity it is asked to clone
//   - NotFound: runtime lookups that reference something absent, such as
//     removing an effect from a list that does not hold it
//
// Creating and decorating errors:
//
//	err := errors.NotFoundf("effect %s is not in the list", id).
//	    WithMeta("effect_id", id)
//
// Wrapping keeps the original code and metadata:
//
//	if err := loader.LoadArea(ctx, bundle, area); err != nil {
//	    return errors.Wrapf(err, "failed to load area %s", area)
//	}
//
// The admin service converts errors with ToGRPCError; metadata travels as a
// google.protobuf.Struct status detail and is recovered by FromGRPCError.
package errors
