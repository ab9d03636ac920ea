//go:build !debug

package debug

// Debug controls verbose behavior of the library; guarded by the "debug"
// build tag so release builds compile it away.
const Debug = false
