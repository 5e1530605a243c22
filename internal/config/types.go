package config

import (
	"gopkg.in/yaml.v3"
)

// Certificate entry states.
const (
	StatePresent = "present"
	StateAbsent  = "absent"
)

// Defaults applied while decoding entries.
const (
	DefaultRemotePort  = 443
	DefaultBundleAlias = "1"
	DefaultExecutable  = "keytool"
)

// Manifest is the full keysync manifest document: one keystore target and
// the certificate entries that must converge inside it.
type Manifest struct {
	Version      string   `yaml:"version" validate:"required"`
	Name         string   `yaml:"name,omitempty" validate:"omitempty,max=100"`
	Keystore     Keystore `yaml:"keystore"`
	Certificates []Entry  `yaml:"certificates" validate:"required,min=1,dive"`
}

// Keystore identifies the store all entries are reconciled against.
type Keystore struct {
	Path       string `yaml:"path" validate:"required"`
	Password   string `yaml:"password" validate:"required"`
	Create     bool   `yaml:"create,omitempty"`
	Executable string `yaml:"executable,omitempty"`
}

// Entry declares the desired state of a single keystore alias. Exactly one
// of URL, Path, or PKCS12 selects the certificate source.
type Entry struct {
	ID          string `yaml:"id" validate:"required,entry_id"`
	State       string `yaml:"state,omitempty" validate:"omitempty,oneof=present absent"`
	Alias       string `yaml:"alias,omitempty"`
	TrustCACert bool   `yaml:"trust_cacert,omitempty"`
	ForceUpdate bool   `yaml:"force_update,omitempty"`

	URL    string        `yaml:"url,omitempty"`
	Port   int           `yaml:"port,omitempty" validate:"omitempty,min=1,max=65535"`
	Path   string        `yaml:"path,omitempty"`
	PKCS12 *PKCS12Source `yaml:"pkcs12,omitempty"`
}

// PKCS12Source points at a password-protected bundle to copy an entry from.
type PKCS12Source struct {
	Path     string `yaml:"path" validate:"required"`
	Password string `yaml:"password,omitempty"`
	Alias    string `yaml:"alias,omitempty"`
}

// UnmarshalYAML decodes an entry and applies defaults: state present, remote
// port 443, and the URL host as alias when none is declared.
func (e *Entry) UnmarshalYAML(value *yaml.Node) error {
	type rawEntry Entry
	var temp rawEntry
	if err := value.Decode(&temp); err != nil {
		return err
	}
	*e = Entry(temp)

	if e.State == "" {
		e.State = StatePresent
	}
	if e.URL != "" {
		if e.Port == 0 {
			e.Port = DefaultRemotePort
		}
		if e.Alias == "" {
			e.Alias = e.URL
		}
	}

	return nil
}

// UnmarshalYAML applies the bundle-internal alias default.
func (p *PKCS12Source) UnmarshalYAML(value *yaml.Node) error {
	type rawSource PKCS12Source
	var temp rawSource
	if err := value.Decode(&temp); err != nil {
		return err
	}
	*p = PKCS12Source(temp)

	if p.Alias == "" {
		p.Alias = DefaultBundleAlias
	}

	return nil
}

// SourceCount reports how many source variants are populated.
func (e *Entry) SourceCount() int {
	count := 0
	if e.URL != "" {
		count++
	}
	if e.Path != "" {
		count++
	}
	if e.PKCS12 != nil {
		count++
	}
	return count
}

// KeytoolExecutable returns the configured keytool path or the default.
func (k Keystore) KeytoolExecutable() string {
	if k.Executable != "" {
		return k.Executable
	}
	return DefaultExecutable
}
