package writer

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadManifest reads bind options from a YAML manifest. JSON manifests are
// accepted as well. Unknown keys are rejected.
//
//	template: bin/apphost
//	output: dist/myapp
//	app: lib/MyApp.dll
//	windows_gui: false
//	mode: "0755"
func LoadManifest(path string) (Options, error) {
	var opts Options

	file, err := os.Open(path)
	if err != nil {
		return opts, fmt.Errorf("failed to read manifest: %w", err)
	}
	defer file.Close()

	dec := yaml.NewDecoder(file)
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil {
		if errors.Is(err, io.EOF) {
			return opts, fmt.Errorf("manifest %s is empty", path)
		}
		return opts, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	return opts, nil
}
