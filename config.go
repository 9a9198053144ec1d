package typeguard

// Process-wide modes. Like the i18n translator, these follow a documented
// initialization contract: set them during program startup, before validators
// run concurrently. They are read on every top-level call (short-circuit) or
// at explanation-rendering time (messages), never stored inside compiled
// procedures.
var (
	shortCircuit   bool
	renderMessages = true
)

// SetShortCircuit toggles short-circuit mode. When enabled, every entry point
// reports success without invoking the compiled procedure. It exists so a
// trusted environment can disable validation cost without changing call
// sites.
func SetShortCircuit(enabled bool) { shortCircuit = enabled }

// ShortCircuit reports whether short-circuit mode is active.
func ShortCircuit() bool { return shortCircuit }

// SetErrorMessages controls whether explanation-mode failures carry a
// rendered human-readable message. Codes, paths and params are always
// populated; only the Message text is affected. Message wording itself is
// customized via i18n.SetTranslator.
func SetErrorMessages(enabled bool) { renderMessages = enabled }
