package pipeline

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// stringList accepts a single string or a sequence of strings
type stringList []string

func (s *stringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*s = stringList{}
			return nil
		}
		*s = stringList{node.Value}
		return nil
	case yaml.SequenceNode:
		out := make(stringList, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: expected a string", item.Line)
			}
			out = append(out, item.Value)
		}
		*s = out
		return nil
	}
	return fmt.Errorf("line %d: expected a string or a list of strings", node.Line)
}

// variableMap accepts `KEY: value` and `KEY: {value: ..., description: ...}`
type variableMap map[string]string

func (v *variableMap) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: variables config should be a hash of key value pairs", node.Line)
	}
	out := make(variableMap, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		switch value.Kind {
		case yaml.ScalarNode:
			out[key.Value] = value.Value
		case yaml.MappingNode:
			var full struct {
				Value string `yaml:"value"`
			}
			if err := value.Decode(&full); err != nil {
				return err
			}
			out[key.Value] = full.Value
		default:
			return fmt.Errorf("line %d: variable %s should be a string", value.Line, key.Value)
		}
	}
	*v = out
	return nil
}

// rawChanges accepts a path list or `{paths: [...], compare_to: ref}`
type rawChanges struct {
	Paths     stringList
	CompareTo string
}

func (c *rawChanges) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.MappingNode {
		var full struct {
			Paths     stringList `yaml:"paths"`
			CompareTo string     `yaml:"compare_to"`
		}
		if err := node.Decode(&full); err != nil {
			return err
		}
		c.Paths, c.CompareTo = full.Paths, full.CompareTo
		return nil
	}
	return node.Decode(&c.Paths)
}

// rawExists accepts a pattern list or `{paths: [...]}`
type rawExists struct {
	Paths stringList
}

func (e *rawExists) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.MappingNode {
		var full struct {
			Paths stringList `yaml:"paths"`
		}
		if err := node.Decode(&full); err != nil {
			return err
		}
		e.Paths = full.Paths
	} else if err := node.Decode(&e.Paths); err != nil {
		return err
	}
	if e.Paths == nil {
		e.Paths = stringList{}
	}
	return nil
}

// rawAllowFailure accepts a boolean or `{exit_codes: 1 | [1, 2]}`
type rawAllowFailure struct {
	Set       bool
	Value     bool
	ExitCodes []int
}

func (a *rawAllowFailure) UnmarshalYAML(node *yaml.Node) error {
	a.Set = true
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&a.Value)
	case yaml.MappingNode:
		var full struct {
			ExitCodes yaml.Node `yaml:"exit_codes"`
		}
		if err := node.Decode(&full); err != nil {
			return err
		}
		codes, err := decodeExitCodes(&full.ExitCodes)
		if err != nil {
			return err
		}
		a.ExitCodes = codes
		return nil
	}
	return fmt.Errorf("line %d: allow_failure should be a boolean or a hash", node.Line)
}

func decodeExitCodes(node *yaml.Node) ([]int, error) {
	var items []*yaml.Node
	switch node.Kind {
	case yaml.ScalarNode:
		items = []*yaml.Node{node}
	case yaml.SequenceNode:
		items = node.Content
	default:
		return nil, fmt.Errorf("line %d: exit_codes should be an integer or an array of integers", node.Line)
	}
	codes := make([]int, 0, len(items))
	for _, item := range items {
		code, err := strconv.Atoi(item.Value)
		if err != nil {
			return nil, fmt.Errorf("line %d: exit_codes should be an integer or an array of integers", item.Line)
		}
		codes = append(codes, code)
	}
	return codes, nil
}

// rawInherit is the `inherit:` keyword. Only variables matter here.
type rawInherit struct {
	Variables *rawInheritVariables `yaml:"variables"`
}

type rawInheritVariables struct {
	All   bool
	Names []string
}

func (v *rawInheritVariables) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&v.All)
	}
	return node.Decode(&v.Names)
}

type rawRule struct {
	If           string          `yaml:"if"`
	Changes      *rawChanges     `yaml:"changes"`
	Exists       *rawExists      `yaml:"exists"`
	When         string          `yaml:"when"`
	AllowFailure rawAllowFailure `yaml:"allow_failure"`
	Variables    variableMap     `yaml:"variables"`
	StartIn      string          `yaml:"start_in"`
}

type rawJob struct {
	Stage        string          `yaml:"stage"`
	Script       stringList      `yaml:"script"`
	Trigger      *yaml.Node      `yaml:"trigger"`
	Extends      *yaml.Node      `yaml:"extends"`
	Rules        []rawRule       `yaml:"rules"`
	When         string          `yaml:"when"`
	AllowFailure rawAllowFailure `yaml:"allow_failure"`
	StartIn      string          `yaml:"start_in"`
	Variables    variableMap     `yaml:"variables"`
	Inherit      *rawInherit     `yaml:"inherit"`
}

type rawWorkflow struct {
	Name  string    `yaml:"name"`
	Rules []rawRule `yaml:"rules"`
}
