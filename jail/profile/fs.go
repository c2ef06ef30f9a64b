package profile

import "github.com/spf13/afero"

// appFs is the filesystem Load reads profiles through. Tests swap it
// for an in-memory afero.Fs so profile-loading logic can be exercised
// without touching the real filesystem.
var appFs afero.Fs = afero.NewOsFs()

func readFile(path string) ([]byte, error) {
	return afero.ReadFile(appFs, path)
}
