package vos

// VNetwork holds the network identity of the machine.
type VNetwork interface {
	Hostname() (string, error)
}

// VOS is the slice of the operating system the shell reads its identity from
// and whose working directory it owns.
type VOS interface {
	VNetwork
	VEnv

	// Username returns the name of the invoking user.
	Username() (string, error)

	// Getwd returns the current working directory.
	Getwd() (string, error)

	// Chdir changes the current working directory. Failures are reported as
	// *fs.PathError.
	Chdir(dir string) error
}
