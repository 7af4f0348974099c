package config

import (
	"bytes"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
)

// FileSystem abstracts the file operations the loader needs.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
	Getwd() (string, error)
}

// AferoFileSystem implements FileSystem on top of an afero.Fs. Tests use it
// with afero.NewMemMapFs; the default loader uses the OS filesystem.
type AferoFileSystem struct {
	Fs afero.Fs
}

// NewOsFileSystem returns a FileSystem backed by the real filesystem.
func NewOsFileSystem() *AferoFileSystem {
	return &AferoFileSystem{Fs: afero.NewOsFs()}
}

// Exists reports whether path names an existing file.
func (a *AferoFileSystem) Exists(path string) bool {
	ok, err := afero.Exists(a.Fs, path)
	return err == nil && ok
}

// LoadEnv reads a .env file and exports its variables. Variables already
// present in the environment win, as with godotenv.Load.
func (a *AferoFileSystem) LoadEnv(path string) error {
	data, err := afero.ReadFile(a.Fs, path)
	if err != nil {
		return err
	}
	vars, err := godotenv.Parse(bytes.NewReader(data))
	if err != nil {
		return err
	}
	for k, v := range vars {
		if _, set := os.LookupEnv(k); set {
			continue
		}
		if err := os.Setenv(k, v); err != nil {
			return err
		}
	}
	return nil
}

// Getwd returns the process working directory.
func (a *AferoFileSystem) Getwd() (string, error) {
	return os.Getwd()
}

// afs returns the afero.Fs behind fs, if any.
func afs(fs FileSystem) afero.Fs {
	if a, ok := fs.(*AferoFileSystem); ok {
		return a.Fs
	}
	return nil
}
