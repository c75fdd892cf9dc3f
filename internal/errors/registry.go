package errors

// Template defines a registered error type.
type Template struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]Template{
	// ============================================
	// Registry Errors (S001-S009)
	// ============================================

	"S001": {
		Category: CategoryRegistry,
		Message:  "No active registry",
		Detail:   "A store accessor was called without an explicit registry and no registry is active.",
	},
	"S002": {
		Category: CategoryRegistry,
		Message:  "Duplicate store id",
		Detail:   "Two different definitions share one id inside a registry that enforces unique ids.",
	},
	"S003": {
		Category: CategoryAction,
		Message:  "Unknown action",
		Detail:   "The store definition declares no action with this name.",
	},
	"S004": {
		Category: CategoryAction,
		Message:  "Pending result panicked",
		Detail:   "The function backing a future panicked before settling.",
	},
	"S005": {
		Category: CategoryAction,
		Message:  "Unknown getter",
		Detail:   "The store definition declares no getter with this name.",
	},

	// ============================================
	// Config and CLI Errors (S010-S019)
	// ============================================

	"S010": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "vstore.json could not be read or failed validation.",
	},
	"S011": {
		Category: CategoryCLI,
		Message:  "Invalid scenario",
		Detail:   "The scenario document could not be parsed or references unknown stores or actions.",
	},
	"S012": {
		Category: CategoryCLI,
		Message:  "Invalid document",
		Detail:   "A state or patch document is not a mapping at its root.",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}
