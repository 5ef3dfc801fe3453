//go:build !llama

package model

// llamaBuilt indicates this binary was compiled with real llama support.
const llamaBuilt = false

// openRuntime fails fast: the llama runtime is not linked into this build.
func openRuntime(cfg Config) (Model, error) {
	return nil, ErrDependencyUnavailable("llama support not built (missing 'llama' build tag)")
}
