package seed

import (
	"embed"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"snippetnav/internal/config"
	"snippetnav/internal/domain"
	models "snippetnav/internal/domain/models/snippets"
)

//go:embed fixtures/default.yaml
var fixtureFiles embed.FS

// Fixture is a project with a nested folder layout
type Fixture struct {
	Project  FixtureProject   `yaml:"project"`
	Folders  []FixtureFolder  `yaml:"folders"`
	Snippets []FixtureSnippet `yaml:"snippets"`
}

type FixtureProject struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

type FixtureFolder struct {
	Name     string           `yaml:"name"`
	Folders  []FixtureFolder  `yaml:"folders"`
	Snippets []FixtureSnippet `yaml:"snippets"`
}

type FixtureSnippet struct {
	Name       string            `yaml:"name"`
	Visibility models.Visibility `yaml:"visibility"`
	Favorite   bool              `yaml:"favorite"`
}

// Validate implements validation.Validatable
func (f Fixture) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Project),
		validation.Field(&f.Folders),
		validation.Field(&f.Snippets),
	)
}

func (p FixtureProject) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.ID, validation.Required, validation.By(validateUUID)),
		validation.Field(&p.Name, validation.Required),
	)
}

func (f FixtureFolder) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Name, validation.Required, validation.Length(1, config.MaxFolderNameLength)),
		validation.Field(&f.Folders),
		validation.Field(&f.Snippets),
	)
}

func (s FixtureSnippet) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Name, validation.Required, validation.Length(1, config.MaxSnippetNameLength)),
		validation.Field(&s.Visibility, validation.In(
			models.VisibilityPrivate,
			models.VisibilityProject,
			models.VisibilityShared,
		)),
	)
}

func validateUUID(value interface{}) error {
	s, _ := value.(string)
	if _, err := uuid.Parse(s); err != nil {
		return errors.New("must be a valid UUID")
	}
	return nil
}

// Counts returns how many folders and snippets the fixture holds
func (f *Fixture) Counts() (folders, snippets int) {
	var walk func([]FixtureFolder)
	walk = func(list []FixtureFolder) {
		for _, folder := range list {
			folders++
			snippets += len(folder.Snippets)
			walk(folder.Folders)
		}
	}
	walk(f.Folders)
	return folders, snippets + len(f.Snippets)
}

// LoadDefaultFixture parses the embedded sample project
func LoadDefaultFixture() (*Fixture, error) {
	data, err := fixtureFiles.ReadFile("fixtures/default.yaml")
	if err != nil {
		return nil, fmt.Errorf("read default fixture: %w", err)
	}
	return ParseFixture(data)
}

// ParseFixture parses and validates a fixture
func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("unmarshal fixture: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return &f, nil
}
