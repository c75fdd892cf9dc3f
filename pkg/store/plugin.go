package store

// PluginContext is passed to a plugin for every store a registry constructs.
type PluginContext struct {
	Registry   *Registry
	Store      *Store
	Definition Definition
}

// Plugin extends stores as they are constructed, typically by registering
// OnAction or Subscribe callbacks.
type Plugin func(ctx PluginContext)
