package attr

// Options tune diagnostic policy of ParseCase.
type Options struct {
	// ReportMissingAfterTypeError also emits "Both `status` and `code` should be
	// defined." when status or code was present but had the wrong type.
	// Off by default: the specific type error is enough.
	ReportMissingAfterTypeError bool
}

// DefaultOptions returns the policy used when jsonerr.toml says nothing.
func DefaultOptions() Options {
	return Options{}
}
