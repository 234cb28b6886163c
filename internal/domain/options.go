package domain

// CommonOptions contains shared options for building and exporting.
type CommonOptions struct {
	Verbose bool
	DryRun  bool
	Force   bool
}

// DefaultCommonOptions returns CommonOptions with default values.
func DefaultCommonOptions() CommonOptions {
	return CommonOptions{}
}
