//go:build guardstack_lite

package guardstack

const defaultFeatures = NoFeatures
