package promptstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/manana2520/ai-agent-outreach-email/internal/config"
)

// Document is one prompt configuration document: a mapping from entity name
// (agent or task) to its named text fields. Key order survives a
// load/modify/save round-trip so diffs against hand-edited files stay
// readable.
type Document struct {
	names      []string
	fieldOrder map[string][]string
	entries    map[string]map[string]string
}

func NewDocument() *Document {
	return &Document{
		fieldOrder: make(map[string][]string),
		entries:    make(map[string]map[string]string),
	}
}

// Names returns entity names in document order.
func (d *Document) Names() []string {
	return append([]string(nil), d.names...)
}

// Has reports whether the named entity exists.
func (d *Document) Has(name string) bool {
	_, ok := d.entries[name]
	return ok
}

// Field returns the text of one entity field, empty when absent.
func (d *Document) Field(name, field string) string {
	return d.entries[name][field]
}

// SetField overwrites one field of one entity. It reports false when the
// entity does not exist; improvements targeting unknown entities are
// skipped, not invented.
func (d *Document) SetField(name, field, text string) bool {
	fields, ok := d.entries[name]
	if !ok {
		return false
	}
	if _, exists := fields[field]; !exists {
		d.fieldOrder[name] = append(d.fieldOrder[name], field)
	}
	fields[field] = text
	return true
}

// Set adds or replaces a whole entity, appending it when new.
func (d *Document) Set(name string, fields map[string]string, order []string) {
	if _, ok := d.entries[name]; !ok {
		d.names = append(d.names, name)
	}
	d.entries[name] = fields
	d.fieldOrder[name] = order
}

func (d *Document) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("expected mapping at document root, got yaml kind %d", value.Kind)
	}

	d.fieldOrder = make(map[string][]string)
	d.entries = make(map[string]map[string]string)
	d.names = nil

	for i := 0; i+1 < len(value.Content); i += 2 {
		name := value.Content[i].Value
		entity := value.Content[i+1]
		if entity.Kind != yaml.MappingNode {
			return fmt.Errorf("entity %q: expected mapping of fields", name)
		}

		fields := make(map[string]string)
		var order []string
		for j := 0; j+1 < len(entity.Content); j += 2 {
			field := entity.Content[j].Value
			fields[field] = entity.Content[j+1].Value
			order = append(order, field)
		}

		d.names = append(d.names, name)
		d.entries[name] = fields
		d.fieldOrder[name] = order
	}

	return nil
}

func (d *Document) MarshalYAML() (interface{}, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, name := range d.names {
		entity := &yaml.Node{Kind: yaml.MappingNode}
		for _, field := range d.fieldOrder[name] {
			entity.Content = append(entity.Content, scalarNode(field), textNode(d.entries[name][field]))
		}
		root.Content = append(root.Content, scalarNode(name), entity)
	}
	return root, nil
}

func scalarNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: value}
}

func textNode(value string) *yaml.Node {
	node := &yaml.Node{Kind: yaml.ScalarNode, Value: value}
	if strings.Contains(value, "\n") {
		node.Style = yaml.LiteralStyle
	}
	return node
}

// Store reads and writes the two prompt configuration documents. Reads and
// writes are whole-document; writes go through a temp file and rename so a
// crashed run never leaves a half-written document. A single writer is
// assumed: concurrent orchestrator instances against the same files will
// race.
type Store struct {
	agentsPath string
	tasksPath  string
}

func NewStore(cfg *config.PromptsConfig) *Store {
	return &Store{
		agentsPath: cfg.AgentsPath,
		tasksPath:  cfg.TasksPath,
	}
}

func (s *Store) LoadAgents() (*Document, error) {
	return loadDocument(s.agentsPath)
}

func (s *Store) LoadTasks() (*Document, error) {
	return loadDocument(s.tasksPath)
}

func (s *Store) SaveAgents(doc *Document) error {
	return saveDocument(s.agentsPath, doc)
}

func (s *Store) SaveTasks(doc *Document) error {
	return saveDocument(s.tasksPath, doc)
}

// ReadRaw returns both documents as text, for embedding into analysis
// prompts.
func (s *Store) ReadRaw() (agentsText, tasksText string, err error) {
	agents, err := os.ReadFile(s.agentsPath)
	if err != nil {
		return "", "", fmt.Errorf("read %s: %w", s.agentsPath, err)
	}
	tasks, err := os.ReadFile(s.tasksPath)
	if err != nil {
		return "", "", fmt.Errorf("read %s: %w", s.tasksPath, err)
	}
	return string(agents), string(tasks), nil
}

// Backup copies both documents into a timestamped directory under dir and
// returns the directory path.
func (s *Store) Backup(dir string) (string, error) {
	backupDir := filepath.Join(dir, time.Now().Format("20060102_150405"))
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	for _, path := range []string{s.agentsPath, s.tasksPath} {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		dest := filepath.Join(backupDir, filepath.Base(path))
		if err := os.WriteFile(dest, data, 0o644); err != nil {
			return "", fmt.Errorf("write %s: %w", dest, err)
		}
	}

	return backupDir, nil
}

func loadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	doc := NewDocument()
	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return doc, nil
}

func saveDocument(path string, doc *Document) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}

	return nil
}
