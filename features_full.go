//go:build !guardstack_lite

package guardstack

// Boundary guards and checksums are compiled in by default. Build with
// -tags guardstack_lite to drop them from the default feature set.
const defaultFeatures = AllFeatures
