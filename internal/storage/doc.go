// Package storage provides the forgiving key-value persistence adapter
// used by the bed controller and the auth session manager.
//
// The contract is deliberately lossy on the failure side: get returns
// value-or-absent, set and remove never report errors to the caller. A
// corrupt payload or an unavailable database degrades to an empty/default
// starting state instead of failing the application. All failures are
// logged for diagnosis.
package storage
