package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Form Errors (F001-F019)
	// ============================================

	"F001": {
		Category:   CategoryConfig,
		Message:    "Form not found",
		Detail:     "The form selector did not resolve to an element in the document.",
		Suggestion: "Check the selector, e.g. \"#signup\" or \"form[name=signup]\".",
	},
	"F002": {
		Category:   CategoryConfig,
		Message:    "Invalid selector",
		Detail:     "The form selector could not be parsed. Supported: tag, #id, .class, [attr], [attr=value], descendant and '>' combinators, comma lists.",
		Suggestion: "Quote attribute values that contain spaces: [name=\"first name\"].",
	},
	"F003": {
		Category: CategoryConfig,
		Message:  "Nil validator",
		Detail:   "A custom validator was registered with a nil function.",
	},

	// ============================================
	// Config Errors (F020-F039)
	// ============================================

	"F020": {
		Category:   CategoryConfig,
		Message:    "Config file not found",
		Detail:     "No formguard.json, formguard.yaml or formguard.yml was found.",
		Suggestion: "Pass --config or create formguard.json in the working directory.",
	},
	"F021": {
		Category: CategoryConfig,
		Message:  "Invalid config file",
		Detail:   "The config file could not be parsed.",
	},
	"F022": {
		Category: CategoryConfig,
		Message:  "Invalid config value",
		Detail:   "A config value is out of range or malformed.",
	},
	"F023": {
		Category:   CategoryConfig,
		Message:    "Unknown rule type",
		Detail:     "Custom rules must use one of the known rule types.",
		Suggestion: "Use one of: pattern, oneOf, email, url, uuid, alpha, alphaNumeric, numeric, phone.",
	},
	"F024": {
		Category: CategoryConfig,
		Message:  "Invalid rule pattern",
		Detail:   "The regular expression of a pattern rule does not compile. Patterns use RE2 syntax.",
	},
	"F025": {
		Category:   CategoryConfig,
		Message:    "Rule name is reserved",
		Detail:     "Built-in rule names and names ending in \"Message\" cannot be used for custom rules.",
		Suggestion: "Rename the rule, e.g. \"zip\" instead of \"pattern\".",
	},
	"F026": {
		Category: CategoryConfig,
		Message:  "Environment override failed",
		Detail:   "A FORMGUARD_* environment variable could not be applied.",
	},

	// ============================================
	// Input Errors (F040-F059)
	// ============================================

	"F040": {
		Category: CategoryInput,
		Message:  "HTML parse failed",
		Detail:   "The HTML document could not be read.",
	},
	"F041": {
		Category:   CategoryInput,
		Message:    "Invalid field assignment",
		Detail:     "Field assignments must have the form name=value.",
		Suggestion: "Use --set email=user@example.com",
	},

	// ============================================
	// Protocol Errors (F060-F079)
	// ============================================

	"F060": {
		Category: CategoryProtocol,
		Message:  "Invalid request body",
		Detail:   "The request body is not a valid validation request.",
	},
	"F061": {
		Category: CategoryProtocol,
		Message:  "Unknown message type",
		Detail:   "The live connection received a message type it does not handle.",
	},
	"F062": {
		Category: CategoryProtocol,
		Message:  "Session has no form",
		Detail:   "A live message arrived before a form was loaded on the connection.",
	},

	// ============================================
	// CLI Errors (F080-F099)
	// ============================================

	"F080": {
		Category: CategoryValidation,
		Message:  "Form has invalid fields",
		Detail:   "At least one field failed validation.",
	},
	"F081": {
		Category: CategoryCLI,
		Message:  "Output write failed",
		Detail:   "The annotated document could not be written.",
	},
	"F082": {
		Category: CategoryCLI,
		Message:  "Server failed",
		Detail:   "The HTTP server stopped with an error.",
	},
}

// GetAllCodes returns all registered error codes, sorted.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
