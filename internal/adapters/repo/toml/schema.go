package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version int          `toml:"version"`
	Lines   []lineSchema `toml:"lines"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported lines schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type lineSchema struct {
	Number string     `toml:"number"`
	Name   string     `toml:"name,omitempty"`
	Auth   authSchema `toml:"auth"`
}

type authSchema struct {
	SecretRef string `toml:"secret_ref"`
}
