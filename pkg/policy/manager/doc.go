// Package manager loads declarative console policies from YAML files and
// registers them with the interceptor.
//
// # Policy Files
//
//	policies:
//	  - name: quiet-vendor
//	    path: "glob:vendor/**"
//	    disabled: true
//
//	  - name: tag-warnings
//	    method: [warn, error]
//	    transform:
//	      - level_tag: true
//	      - timestamp: "15:04:05"
//
//	  - name: no-healthchecks
//	    method: log
//	    path:
//	      - {glob: "**/health*.go", options: {nocase: true}}
//	      - "re:^internal/probe/"
//	    transform:
//	      - drop_matching: "^GET /healthz"
//	      - redact: true
//
// method and path take a single value or a list. Omitting them applies the
// policy to every method or path; an empty list applies it to none. Path
// strings use the prefixes "re:" and "glob:"; anything else is a literal
// path. Transform steps run in order and stop after drop_matching prevents
// the call.
//
// # Loading
//
// Parse, Compile and LoadFile turn files into engine policies. LoadFile
// accepts a directory and reads its .yaml and .yml files in lexical order.
// Lint validates without registering.
//
// # Manager
//
//	mgr, err := manager.New(&cfg.Policy, logger)
//	if err != nil {
//	    return err
//	}
//	if err := mgr.Load(); err != nil {
//	    return err
//	}
//	go mgr.Watch(ctx) // reload on change
//	defer mgr.Stop()
//
// The manager registers on behalf of the code that called New and replaces
// its policies as a group on every load, so reloads never duplicate
// policies. A load that fails keeps the previous policies.
package manager
