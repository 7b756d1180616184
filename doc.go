// Package goservice provides small, contract-checked actions composed over a shared context.
//
// An Action is a unit of business logic that reads from and writes to a
// Context. Each action type declares, through its Contract, which keys it
// accepts (optional, with defaults), expects (required before it runs) and
// promises (guaranteed after it succeeds). The framework enforces those
// contracts on every call and records each action that ran, in order, on the
// context.
//
// Core components include:
//   - Context: key/value state plus status (success, message, failure code,
//     fail-hard mode, skip-remaining) and the called-actions log
//   - Contract: the type-level key declarations of an action
//   - Invocation: one run of an action through the lifecycle and middleware
//   - Organizer: a sequence of actions sharing one context
//
// Business failures are state, not errors: an action calls ctx.Fail and the
// caller inspects ctx.Failed. CallBang turns that state into a *Failure error
// for callers that demand success. Contract violations are always errors.
package goservice
