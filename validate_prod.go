//go:build !debug_mem_cache

package clam

// DebugValidate will call Validate on the provided object and panics if any
// errors are returned. This method no-ops unless the debug_mem_cache build
// tag is present.
func DebugValidate(validatable Validatable) {
}
