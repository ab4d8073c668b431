//go:build !debug

package pool

// debugBuild is false in normal builds: a double release is silently
// tolerated and nothing is reported.
const debugBuild = false
