// Package config loads harness profiles written in CUE.
//
// A profile file declares one or more named profiles:
//
//	profile: nightly: {
//		trials:   10000
//		extended: true
//		pivot:    "random"
//	}
//
// Each profile is unified with the embedded #Profile schema, which supplies
// defaults and rejects unknown fields, then decoded into a Profile. The
// built-in profiles "default", "quick" and "extended" are always available
// through LoadBuiltin.
package config
