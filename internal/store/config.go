package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/rogersnm/doctag/internal/model"
)

// configFile is the on-disk shape of config.json.
type configFile struct {
	Tags      []string            `json:"tags"`
	Templates map[string][]string `json:"templates"`
}

// ConfigStore is the single writer of config.json. It caches the last
// loaded or saved value.
type ConfigStore struct {
	path string
	log  *slog.Logger
	cfg  model.TagConfig
}

func NewConfigStore(path string, logger *slog.Logger) *ConfigStore {
	return &ConfigStore{
		path: path,
		log:  loggerOrDefault(logger),
		cfg:  model.NewTagConfig(),
	}
}

func (s *ConfigStore) Path() string {
	return s.path
}

// Load reads config.json into the cache. A missing or malformed file
// yields an empty config; a field of the wrong type is dropped on its own.
func (s *ConfigStore) Load() model.TagConfig {
	s.cfg = model.NewTagConfig()
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.Warn("reading tag config", "path", s.path, "error", err)
		}
		return s.Config()
	}
	cf, err := decodeConfigLenient(data)
	if err != nil {
		s.log.Warn("ignoring malformed tag config", "path", s.path, "error", err)
		return s.Config()
	}
	s.cfg = cf.toModel()
	return s.Config()
}

// Config returns a copy of the cached config.
func (s *ConfigStore) Config() model.TagConfig {
	return s.cfg.Clone()
}

// Save replaces config.json with cfg and updates the cache.
func (s *ConfigStore) Save(cfg model.TagConfig) error {
	data, err := encodeConfig(fromModel(cfg))
	if err != nil {
		return err
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("saving tag config: %w", err)
	}
	s.cfg = cfg.Clone()
	s.cfg.DefaultTags = s.cfg.SortedTags()
	return nil
}

// SaveRaw validates hand-edited config text and saves it. On a parse
// failure it returns *ConfigParseError and changes nothing.
func (s *ConfigStore) SaveRaw(data []byte) error {
	cf, err := decodeConfig(data)
	if err != nil {
		return &ConfigParseError{Err: err}
	}
	return s.Save(cf.toModel())
}

// Raw returns the persisted config text.
func (s *ConfigStore) Raw() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading tag config: %w", err)
	}
	return data, nil
}

func decodeConfig(data []byte) (configFile, error) {
	var cf configFile
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return cf, fmt.Errorf("expected a JSON object")
	}
	if err := json.Unmarshal(trimmed, &cf); err != nil {
		return cf, err
	}
	return cf, nil
}

// decodeConfigLenient keeps every field that decodes on its own. Only text
// that is not a JSON object is an error.
func decodeConfigLenient(data []byte) (configFile, error) {
	var cf configFile
	var fields map[string]json.RawMessage
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return cf, fmt.Errorf("expected a JSON object")
	}
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return cf, err
	}
	cf.Tags = stringList(fields["tags"])
	var templates map[string]json.RawMessage
	if decodeField(fields, "templates", &templates) {
		cf.Templates = make(map[string][]string, len(templates))
		for name, raw := range templates {
			var items []json.RawMessage
			if json.Unmarshal(raw, &items) != nil {
				continue
			}
			cf.Templates[name] = stringList(raw)
		}
	}
	return cf, nil
}

func encodeConfig(cf configFile) ([]byte, error) {
	if cf.Tags == nil {
		cf.Tags = []string{}
	}
	if cf.Templates == nil {
		cf.Templates = map[string][]string{}
	}
	for name, tags := range cf.Templates {
		if tags == nil {
			cf.Templates[name] = []string{}
		}
	}
	data, err := json.MarshalIndent(cf, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("marshaling tag config: %w", err)
	}
	return append(data, '\n'), nil
}

func (cf configFile) toModel() model.TagConfig {
	cfg := model.TagConfig{
		DefaultTags: append([]string(nil), cf.Tags...),
		Templates:   make(map[string][]string, len(cf.Templates)),
	}
	for name, tags := range cf.Templates {
		cfg.Templates[name] = append([]string(nil), tags...)
	}
	cfg.DefaultTags = cfg.SortedTags()
	return cfg
}

func fromModel(cfg model.TagConfig) configFile {
	cf := configFile{
		Tags:      cfg.SortedTags(),
		Templates: make(map[string][]string, len(cfg.Templates)),
	}
	for name, tags := range cfg.Templates {
		cf.Templates[name] = append([]string(nil), tags...)
	}
	return cf
}
