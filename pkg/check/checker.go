package check

// Checker is implemented by all check types.
// Each check validates a specific aspect of the environment
// and returns a Result describing what it found.
//
// A non-nil error means the check itself could not complete (an
// unexpected fault such as a permission error), as opposed to a
// finding about the environment. Runners convert it into a single
// error entry and continue with the next check.
//
// Implementations:
//   - runtimecheck.Check: runtime or interpreter version
//   - envcheck.MarkerCheck: isolated environment marker
//   - modcheck.LibraryCheck, modcheck.DependencyCheck: linked modules
//   - credcheck.Check: API key in a .env file
//   - filecheck.DirCheck, filecheck.ExamplesCheck: project layout
//   - netcheck.Check: provider connectivity
type Checker interface {
	Run() (Result, error)
}

// Func adapts a plain function to Checker.
type Func func() (Result, error)

// Run calls f.
func (f Func) Run() (Result, error) {
	return f()
}
