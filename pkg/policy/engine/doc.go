// Package engine decides what happens to an intercepted logging call.
//
// Policies are registered into a Store together with a Registrant that
// records who registered them. The Engine walks the store for every call
// and returns a Decision: forward the (possibly rewritten) arguments, or
// drop the call.
//
// # Evaluation Order
//
// Dependency policies run before host policies, so the host project has
// the final say. Within a kind, registration order is kept.
//
//	Call (method, args, caller file)
//	       ↓
//	For each policy in store order:
//	  caller outside dependency root? → skip
//	  method not selected?            → skip
//	  no path alternative matches?    → skip
//	  Disabled set?                   → update flag; skip transform if true
//	  Transform set?                  → rewrite args; stop if prevented
//	       ↓
//	Decision (forward | disabled | prevented)
//
// # Basic Usage
//
//	store := engine.NewStore()
//	store.Append(engine.Registrant{Kind: engine.KindHost, RootPath: root},
//	    engine.Policy{
//	        Methods: []console.Key{console.KeyError},
//	        Transform: func(ctx *engine.Context) ([]any, error) {
//	            return append([]any{"!"}, ctx.Args...), nil
//	        },
//	    },
//	)
//
//	eng := engine.New(store, nil, logger)
//	decision, err := eng.Evaluate(&engine.Call{Method: console.KeyError, Args: args, File: file})
//
// # Thread Safety
//
// The store publishes immutable snapshots, so evaluations may run
// concurrently with each other and with registration.
package engine
