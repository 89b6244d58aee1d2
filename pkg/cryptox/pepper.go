package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Configuration for Argon2id hashing.
const (
	memory      = 19 * 1024 // Memory usage in KiB (19 MiB)
	iterations  = 2         // Iteration count
	parallelism = 1         // Number of threads
	keyLength   = 32        // Length of the generated hash
	saltLength  = 16        // Length of the salt

	// Upper bounds accepted when verifying stored hashes.
	maxMemory     = 256 * 1024
	maxIterations = 16
)

var (
	pepperMu   sync.Mutex
	pepper     string
	pepperFile string
)

// SetPepperPath sets the file the pepper is loaded from (or written to on
// first start). It must be called before the first hash is computed.
func SetPepperPath(file string) {
	pepperMu.Lock()
	defer pepperMu.Unlock()
	pepperFile = file
	pepper = ""
}

// SetPepper installs an explicit pepper value, bypassing the pepper file.
func SetPepper(value string) {
	pepperMu.Lock()
	defer pepperMu.Unlock()
	pepper = value
}

// GetPepper returns the process pepper, loading it on first use. When no
// pepper file is configured an ephemeral pepper is generated, which makes
// every hash unverifiable after a restart.
func GetPepper() string {
	pepperMu.Lock()
	defer pepperMu.Unlock()

	if pepper != "" {
		return pepper
	}

	if pepperFile == "" {
		slog.Warn("no pepper file configured, using an ephemeral pepper")
		p, err := randomPepper()
		if err != nil {
			slog.Error("failed to generate pepper", slog.Any("err", err))
			os.Exit(1)
		}
		pepper = p
		return pepper
	}

	var err error
	pepper, err = loadOrGeneratePepper(pepperFile)
	if err != nil {
		slog.Error("failed to load or generate pepper", slog.Any("err", err), slog.String("file", pepperFile))
		os.Exit(1)
	}

	return pepper
}

// loadOrGeneratePepper loads the pepper from file or generates and persists one.
func loadOrGeneratePepper(file string) (string, error) {
	file = filepath.Clean(file)
	if err := os.MkdirAll(filepath.Dir(file), 0750); err != nil {
		return "", err
	}

	if _, err := os.Stat(file); os.IsNotExist(err) {
		p, err := randomPepper()
		if err != nil {
			return "", err
		}
		if err := os.WriteFile(file, []byte(p), 0600); err != nil {
			return "", err
		}
		return p, nil
	}

	b, err := os.ReadFile(file)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func randomPepper() (string, error) {
	b := make([]byte, keyLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
