package services

// patch implements partial-merge update semantics: a nil source leaves the
// stored value untouched, a non-nil source overwrites it. Every entity's
// update path goes through these two helpers so no endpoint accidentally
// clobbers absent fields with zero values.
func patch[T comparable](dst *T, src *T) bool {
	if src == nil || *dst == *src {
		return false
	}
	*dst = *src
	return true
}

// patchRef merges into an optional (pointer-typed) stored field. Absent
// input keeps the stored reference; present input replaces it.
func patchRef[T any](dst **T, src *T) bool {
	if src == nil {
		return false
	}
	*dst = src
	return true
}
