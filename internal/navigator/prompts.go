package navigator

import (
	"embed"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	models "snippetnav/internal/domain/models/snippets"
)

//go:embed config/prompts.yaml
var promptFiles embed.FS

// Alert is the stronger warning shown inside a confirmation prompt
type Alert struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
}

// Prompt is what the confirmation surface displays
type Prompt struct {
	Title               string `json:"title"`
	Description         string `json:"description"`
	ConfirmLabel        string `json:"confirm_label"`
	ConfirmLabelLoading string `json:"confirm_label_loading"`
	Alert               *Alert `json:"alert,omitempty"`
	Loading             bool   `json:"loading"` // confirm is disabled while true
}

// Label returns the confirm label for the current loading state
func (p Prompt) Label() string {
	if p.Loading {
		return p.ConfirmLabelLoading
	}
	return p.ConfirmLabel
}

// PromptCatalog holds the copy loaded from prompts.yaml
type PromptCatalog struct {
	Delete struct {
		Title               string `yaml:"title"`
		ConfirmLabel        string `yaml:"confirm_label"`
		ConfirmLabelLoading string `yaml:"confirm_label_loading"`
		DescriptionSingle   string `yaml:"description_single"`
		DescriptionMultiple string `yaml:"description_multiple"`
		ProjectAlert        Alert  `yaml:"project_alert"`
		Success             string `yaml:"success"`
		SuccessMultiple     string `yaml:"success_multiple"`
		Failure             string `yaml:"failure"`
	} `yaml:"delete"`
}

// LoadPromptCatalog parses the embedded prompt copy
func LoadPromptCatalog() (*PromptCatalog, error) {
	data, err := promptFiles.ReadFile("config/prompts.yaml")
	if err != nil {
		return nil, fmt.Errorf("read prompts.yaml: %w", err)
	}
	return ParsePromptCatalog(data)
}

// ParsePromptCatalog parses prompt copy from YAML. Missing keys are an error
// so a bad override never yields an empty dialog.
func ParsePromptCatalog(data []byte) (*PromptCatalog, error) {
	var catalog PromptCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("unmarshal prompts: %w", err)
	}

	d := catalog.Delete
	required := map[string]string{
		"delete.title":                 d.Title,
		"delete.confirm_label":         d.ConfirmLabel,
		"delete.confirm_label_loading": d.ConfirmLabelLoading,
		"delete.description_single":    d.DescriptionSingle,
		"delete.description_multiple":  d.DescriptionMultiple,
		"delete.success":               d.Success,
		"delete.failure":               d.Failure,
	}
	for key, value := range required {
		if strings.TrimSpace(value) == "" {
			return nil, fmt.Errorf("prompts: missing %s", key)
		}
	}
	if catalog.Delete.SuccessMultiple == "" {
		catalog.Delete.SuccessMultiple = catalog.Delete.Success
	}

	return &catalog, nil
}

// MustLoadPromptCatalog panics if the embedded copy is broken
func MustLoadPromptCatalog() *PromptCatalog {
	catalog, err := LoadPromptCatalog()
	if err != nil {
		panic(err)
	}
	return catalog
}

// DeletePrompt builds the confirmation prompt for deleting targets. Any
// project-visible target adds the project alert.
func (c *PromptCatalog) DeletePrompt(targets []models.Snippet) Prompt {
	d := c.Delete
	prompt := Prompt{
		Title:               d.Title,
		ConfirmLabel:        d.ConfirmLabel,
		ConfirmLabelLoading: d.ConfirmLabelLoading,
	}

	if len(targets) == 1 {
		prompt.Description = fill(d.DescriptionSingle, map[string]string{"name": targets[0].Name})
	} else {
		prompt.Description = fill(d.DescriptionMultiple, map[string]string{"count": strconv.Itoa(len(targets))})
	}

	for _, t := range targets {
		if t.Visibility == models.VisibilityProject {
			alert := d.ProjectAlert
			prompt.Alert = &alert
			break
		}
	}

	return prompt
}

// DeleteSuccess is the notification after count snippets were deleted
func (c *PromptCatalog) DeleteSuccess(count int) string {
	if count > 1 {
		return fill(c.Delete.SuccessMultiple, map[string]string{"count": strconv.Itoa(count)})
	}
	return c.Delete.Success
}

// DeleteFailure is the notification when a delete failed
func (c *PromptCatalog) DeleteFailure(err error) string {
	return fill(c.Delete.Failure, map[string]string{"error": err.Error()})
}

func fill(template string, values map[string]string) string {
	pairs := make([]string, 0, len(values)*2)
	for key, value := range values {
		pairs = append(pairs, "{"+key+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
