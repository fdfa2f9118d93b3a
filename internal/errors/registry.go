package errors

import "sort"

// Template defines a registered error type.
type Template struct {
	Category Category
	Message  string
	Detail   string
}

// Error codes used across the module.
const (
	CodeUnlocatedPatch   = "E100"
	CodeCycleInProgress  = "E101"
	CodeShapeMismatch    = "E102"
	CodeCycleReplayed    = "E103"
	CodeUnsupportedTree  = "E200"
	CodeTreeParse        = "E201"
	CodeInvalidTree      = "E202"
	CodeConfigInvalid    = "E300"
	CodeConfigValidation = "E301"
	CodeVerifyFailed     = "E400"
)

// registry maps error codes to their templates.
var registry = map[string]Template{
	// ============================================
	// Patch Errors (E100-E119)
	// ============================================

	CodeUnlocatedPatch: {
		Category: CategoryPatch,
		Message:  "Patch index outside the old tree",
		Detail:   "A patch could not be located in the live tree. Patch lists must be sorted by index and produced by diffing the exact tree the live tree was rendered from.",
	},
	CodeCycleInProgress: {
		Category: CategoryEngine,
		Message:  "Update cycle already in progress",
		Detail:   "Update was called while another diff/apply cycle was still running. Cycles never overlap; queue the next tree until the current cycle returns.",
	},
	CodeShapeMismatch: {
		Category: CategoryPatch,
		Message:  "Live tree does not match the old tree",
		Detail:   "The live tree is missing a node the old virtual tree describes. The live tree was modified outside the engine or rendered from a different tree.",
	},
	CodeCycleReplayed: {
		Category: CategoryEngine,
		Message:  "Update cycle already applied",
		Detail:   "A middleware called next more than once. Each cycle diffs and applies exactly once; start a new Update for the next tree.",
	},

	// ============================================
	// Tree File Errors (E200-E219)
	// ============================================

	CodeUnsupportedTree: {
		Category: CategoryTree,
		Message:  "Unsupported tree file",
		Detail:   "Tree files must end in .html, .htm, .yaml, .yml or .json.",
	},
	CodeTreeParse: {
		Category: CategoryTree,
		Message:  "Tree file could not be parsed",
		Detail:   "The file is not valid HTML, YAML or JSON.",
	},
	CodeInvalidTree: {
		Category: CategoryTree,
		Message:  "Invalid tree document",
		Detail:   "Every node needs exactly one of text, tag or lazy, and keyed children need unique non-empty keys.",
	},

	// ============================================
	// Config Errors (E300-E319)
	// ============================================

	CodeConfigInvalid: {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "reconcile.json could not be read or is not valid JSON.",
	},
	CodeConfigValidation: {
		Category: CategoryConfig,
		Message:  "Configuration validation failed",
		Detail:   "A configuration value is outside its allowed set.",
	},

	// ============================================
	// CLI Errors (E400-E419)
	// ============================================

	CodeVerifyFailed: {
		Category: CategoryCLI,
		Message:  "Patched tree differs from a fresh render",
		Detail:   "Applying the diff produced markup that does not match rendering the new tree from scratch.",
	},
}

// AllCodes returns all registered error codes in sorted order.
func AllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Lookup returns the template for an error code.
func Lookup(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}
