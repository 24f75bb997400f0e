// Package countries holds the fixed registry of supported target countries.
package countries

import (
	_ "embed"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed countries.yaml
var registryYAML []byte

// Country is one selectable target country.
type Country struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

var registry []Country

func init() {
	var err error
	registry, err = parseRegistry(registryYAML)
	if err != nil {
		panic(err)
	}
}

func parseRegistry(data []byte) ([]Country, error) {
	var list []Country
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, eris.Wrap(err, "countries: parse registry")
	}
	if len(list) == 0 {
		return nil, eris.New("countries: empty registry")
	}
	for _, c := range list {
		if c.ID == "" || c.Name == "" {
			return nil, eris.Errorf("countries: invalid entry %+v", c)
		}
	}
	return list, nil
}

// List returns the supported countries in registry order.
func List() []Country {
	out := make([]Country, len(registry))
	copy(out, registry)
	return out
}

// Lookup resolves a country by its ID (case-insensitive). The second
// return value reports whether the ID is known.
func Lookup(id string) (Country, bool) {
	id = strings.ToUpper(strings.TrimSpace(id))
	for _, c := range registry {
		if c.ID == id {
			return c, true
		}
	}
	return Country{}, false
}
