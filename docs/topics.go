// Package docs holds the user documentation of pcd, one markdown file per topic.
//
// readme.md is the index: it is shown when no topic is asked for and is not a
// topic itself.
package docs

import (
	"bufio"
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"strings"
)

//go:embed *.md
var files embed.FS

// Index is the name of the page listing the topics.
const Index = "readme"

// Topic is one page of documentation.
type Topic struct {
	Name  string // file name, without the .md extension
	Title string // text of the first heading
}

// List returns the topics sorted by name.
func List() ([]Topic, error) {
	names, err := fs.Glob(files, "*.md")
	if err != nil {
		return nil, err
	}
	var res []Topic
	for _, file := range names { // fs.Glob is sorted
		name := strings.TrimSuffix(file, ".md")
		if name == Index {
			continue
		}
		content, err := files.ReadFile(file)
		if err != nil {
			return nil, err
		}
		res = append(res, Topic{Name: name, Title: title(content)})
	}
	return res, nil
}

// Names returns the names of the topics sorted.
func Names() ([]string, error) {
	topics, err := List()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(topics))
	for i, t := range topics {
		names[i] = t.Name
	}
	return names, nil
}

// Read returns the markdown of the named pages, one after the other. "*"
// stands for every topic.
func Read(names ...string) (string, error) {
	var b bytes.Buffer
	for _, name := range names {
		if name == "*" {
			all, err := Names()
			if err != nil {
				return "", err
			}
			s, err := Read(all...)
			if err != nil {
				return "", err
			}
			b.WriteString(s)
			continue
		}
		content, err := files.ReadFile(name + ".md")
		if err != nil {
			return "", fmt.Errorf("topic %q not found: %w", name, err)
		}
		b.Write(content)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// title returns the first level one heading of a markdown page.
func title(content []byte) string {
	sc := bufio.NewScanner(bytes.NewReader(content))
	for sc.Scan() {
		if t, ok := strings.CutPrefix(sc.Text(), "# "); ok {
			return strings.TrimSpace(t)
		}
	}
	return ""
}
