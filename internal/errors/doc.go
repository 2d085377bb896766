// Package errors provides the coded errors used across dragon-keeper.
//
// Every operation returns an *Error whose Code tells the caller what kind of
// failure happened, whose Message is safe to show a player and whose Meta
// carries ids and other detail for logs.
//
// # Basic Usage
//
// Creating errors:
//
//	err := errors.NotFoundf("dragon %s not found", id)
//	err := errors.FailedPrecondition("not enough coins")
//
// Adding metadata:
//
//	err := errors.FailedPreconditionf("%s is still resting", dragon.Name).
//	    WithMeta("dragon_id", dragon.ID).
//	    WithMeta("reason", "on_cooldown")
//
// Wrapping keeps the code and metadata of the wrapped error:
//
//	if _, err := repo.Update(ctx, input); err != nil {
//	    return errors.Wrapf(err, "failed to save dragon %s", id)
//	}
//
// Changing error semantics:
//
//	if errors.IsNotFound(err) {
//	    return errors.WrapWithCode(err, errors.CodeInvalidArgument, "invalid dragons for battle")
//	}
//
// # Validation Errors
//
//	vb := errors.NewValidationBuilder()
//	errors.ValidateRequired("battle_id", input.BattleID, vb)
//	errors.ValidateEnum("action", string(input.Action), []string{"attack", "skill"}, vb)
//	if err := vb.Build(); err != nil {
//	    return err
//	}
//
// # Layer Guidelines
//
// Repositories return NotFound and AlreadyExists with the record id in Meta
// and wrap store failures. Orchestrators return InvalidArgument for bad
// input and FailedPrecondition for rules the current state forbids. The
// command line prints GetMessage and exits with Code.ExitCode.
package errors
