// Package docs embeds the user documentation topics shown by `csk topic`.
package docs

import (
	"bytes"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"embed"
)

//go:embed *.md
var docs embed.FS

// Get returns the content of one documentation topic, or of all topics
// concatenated when topic is "*".
func Get(topic string) (string, error) {
	if topic == "*" {
		topics, err := List()
		if err != nil {
			return "", err
		}
		var b bytes.Buffer
		for _, t := range topics {
			content, err := Get(t)
			if err != nil {
				return "", err
			}
			b.WriteString(content)
			b.WriteString("\n")
		}
		return b.String(), nil
	}

	content, err := docs.ReadFile(topic + ".md")
	if err != nil {
		return "", fmt.Errorf("topic %q not found: %w", topic, err)
	}
	return string(content), nil
}

// List returns the available topic names, sorted. The readme is the index of
// topics, not a topic itself.
func List() ([]string, error) {
	files, err := fs.Glob(docs, "*.md")
	if err != nil {
		return nil, err
	}
	var topics []string
	for _, f := range files {
		name := strings.TrimSuffix(f, ".md")
		if name == "readme" {
			continue
		}
		topics = append(topics, name)
	}
	sort.Strings(topics)
	return topics, nil
}
