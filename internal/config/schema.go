package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"hiscore-tracker/internal/core/domain"
)

// DefaultSchemaPaths are searched in order when SCHEMA_PATH is not set.
var DefaultSchemaPaths = []string{"schema.json", "docs/schema.json"}

var ErrSchemaNotFound = errors.New("schema file not found")

// LoadSchema reads the ordered skill and minigame names. The file is JSON or
// YAML with top level "skills" and "minigames" lists.
func LoadSchema(path string) (domain.Schema, error) {
	paths := DefaultSchemaPaths
	if path != "" {
		paths = []string{path}
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		return parseSchema(p)
	}
	return domain.Schema{}, fmt.Errorf("%w: tried %v", ErrSchemaNotFound, paths)
}

func parseSchema(path string) (domain.Schema, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return domain.Schema{}, fmt.Errorf("load schema %s: %w", path, err)
	}

	var errs []error
	for _, key := range []string{"skills", "minigames"} {
		if !k.Exists(key) {
			errs = append(errs, fmt.Errorf("schema %s: missing %q list", path, key))
		}
	}
	if len(errs) > 0 {
		return domain.Schema{}, errors.Join(errs...)
	}

	schema := domain.Schema{
		Skills:    k.Strings("skills"),
		Minigames: k.Strings("minigames"),
	}
	if len(schema.Skills) == 0 {
		return domain.Schema{}, fmt.Errorf("schema %s: skills list is empty", path)
	}
	return schema, nil
}
