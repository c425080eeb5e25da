// Package doctext turns an opened document into raw text for the
// reconciliation pipeline. Plain-text and HTML documents are handled here;
// converting PDF or Word files stays with an external collaborator.
package doctext

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// ErrUnsupportedFormat is returned for file types this extractor cannot read.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// ErrExtractionFailed wraps read or parse failures on a supported format.
var ErrExtractionFailed = errors.New("text extraction failed")

// ExtractText reads the document at path and returns its raw text. The path
// "-" reads from stdin.
func ExtractText(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("%w: read stdin: %v", ErrExtractionFailed, err)
		}
		return string(data), nil
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", "":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
		}
		return string(data), nil
	case ".html", ".htm":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
		}
		return ExtractHTML(string(data))
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// ExtractHTML returns the visible text of an HTML document, one block-level
// element per line so the pipeline sees citation lines the way a reader does.
func ExtractHTML(content string) (string, error) {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("%w: parse html: %v", ErrExtractionFailed, err)
	}

	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}

		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode && isBlock(n.Data) {
			buf.WriteString("\n")
		}
	}

	walk(doc)
	return buf.String(), nil
}

func isBlock(tag string) bool {
	switch tag {
	case "p", "div", "li", "br", "tr", "h1", "h2", "h3", "h4", "h5", "h6", "blockquote", "pre":
		return true
	}
	return false
}
