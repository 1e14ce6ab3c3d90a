package ofxparser

import (
	"strings"

	"gopkg.in/xmlpath.v2"
)

// tagNames are the STMTTRN child tags carried into a block.
var tagNames = []string{"TRNTYPE", "DTPOSTED", "TRNAMT", "FITID", "MEMO", "NAME", "PAYEE"}

var (
	stmtTrnPath = xmlpath.MustCompile("//STMTTRN")
	tagPaths    = compileTagPaths()
)

func compileTagPaths() map[string]*xmlpath.Path {
	paths := make(map[string]*xmlpath.Path, len(tagNames))
	for _, tag := range tagNames {
		paths[tag] = xmlpath.MustCompile(tag)
	}
	return paths
}

// extractBlocksXML walks every STMTTRN element of an OFX 2.x document.
func extractBlocksXML(content string) ([]map[string]string, error) {
	root, err := xmlpath.Parse(strings.NewReader(content))
	if err != nil {
		return nil, err
	}

	var blocks []map[string]string
	iter := stmtTrnPath.Iter(root)
	for iter.Next() {
		node := iter.Node()
		block := make(map[string]string, len(tagNames))
		for tag, path := range tagPaths {
			if value, ok := path.String(node); ok {
				block[tag] = strings.TrimSpace(value)
			}
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}

// extractBlocksSGML scans an OFX 1.x document, where tags are not closed
// and each <TAG>value pair sits on its own line inside a STMTTRN block.
func extractBlocksSGML(content string) []map[string]string {
	var blocks []map[string]string
	var block map[string]string

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		upper := strings.ToUpper(line)

		switch {
		case strings.HasPrefix(upper, "<STMTTRN>"):
			block = make(map[string]string, len(tagNames))
		case strings.HasPrefix(upper, "</STMTTRN>"):
			if block != nil {
				blocks = append(blocks, block)
				block = nil
			}
		case block != nil:
			tag, value, ok := splitTagLine(line)
			if ok {
				block[tag] = value
			}
		}
	}
	return blocks
}

// splitTagLine parses a "<TAG>value" line. SGML OFX sometimes closes the
// tag anyway, so a trailing "</TAG>" is stripped when present.
func splitTagLine(line string) (string, string, bool) {
	if !strings.HasPrefix(line, "<") {
		return "", "", false
	}
	end := strings.Index(line, ">")
	if end < 2 {
		return "", "", false
	}
	tag := strings.ToUpper(line[1:end])
	if strings.HasPrefix(tag, "/") {
		return "", "", false
	}
	value := line[end+1:]
	if close := strings.Index(value, "</"); close >= 0 {
		value = value[:close]
	}
	return tag, strings.TrimSpace(value), true
}
