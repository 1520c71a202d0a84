//go:build release

package counter

const invariantChecks = false
