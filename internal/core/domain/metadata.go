package domain

import (
	"sort"
	"strings"
)

// metadataDelimiter is the line that opens and closes a metadata block.
const metadataDelimiter = "---"

// Canonical key order for encoded metadata blocks.
var metadataKeyOrder = []string{
	"id",
	"repo_url",
	"repo_name",
	"doc_type",
	"collection",
	"generated_at",
	"generator",
	"version",
}

// Metadata is the key-value block carried at the boundary of a document
// (immediately before or after the body). The named fields are the
// recognised keys; Author is the open extension map whose entries are
// flattened into the block alongside them.
//
// The block format is deliberately NOT YAML. It is a flat sequence of
// scalar "key: value" lines between "---" delimiter lines. Lists,
// multi-line values, and nested maps are not supported; this is a hard
// limitation of the format, not a parser shortcoming.
type Metadata struct {
	ID          string
	RepoURL     string
	RepoName    string
	DocType     string
	Collection  string
	GeneratedAt string
	Generator   string
	Version     string

	// Author holds free-form extension keys, at minimum
	// MetadataKeyCommitSHA for generated versions.
	Author map[string]string
}

// CommitSHA returns the recorded repository commit, or "".
func (m Metadata) CommitSHA() string {
	return m.Author[MetadataKeyCommitSHA]
}

// Encode renders the metadata as a front-placement block: an opening
// delimiter line, one "key: value" line per non-empty key in canonical
// order, and a closing delimiter line. Values containing a space or
// colon are double-quoted.
func (m Metadata) Encode() string {
	var b strings.Builder
	b.WriteString(metadataDelimiter)
	b.WriteByte('\n')
	for _, kv := range m.pairs() {
		b.WriteString(kv.key)
		b.WriteString(": ")
		b.WriteString(quoteMetadataValue(kv.value))
		b.WriteByte('\n')
	}
	b.WriteString(metadataDelimiter)
	b.WriteByte('\n')
	return b.String()
}

// AppendTo attaches the metadata to the end of body as a back-placement
// block. Placement is a format choice, not a semantic one: DecodeMetadata
// accepts either.
func (m Metadata) AppendTo(body string) string {
	var b strings.Builder
	b.WriteString(body)
	b.WriteByte('\n')
	b.WriteString(metadataDelimiter)
	b.WriteByte('\n')
	for _, kv := range m.pairs() {
		b.WriteString(kv.key)
		b.WriteString(": ")
		b.WriteString(quoteMetadataValue(kv.value))
		b.WriteByte('\n')
	}
	b.WriteString(metadataDelimiter)
	b.WriteByte('\n')
	return b.String()
}

type metadataPair struct {
	key   string
	value string
}

// pairs returns the non-empty key-value pairs in canonical order:
// recognised keys first, then extension keys sorted alphabetically.
func (m Metadata) pairs() []metadataPair {
	named := map[string]string{
		"id":           m.ID,
		"repo_url":     m.RepoURL,
		"repo_name":    m.RepoName,
		"doc_type":     m.DocType,
		"collection":   m.Collection,
		"generated_at": m.GeneratedAt,
		"generator":    m.Generator,
		"version":      m.Version,
	}

	var out []metadataPair
	for _, key := range metadataKeyOrder {
		if named[key] != "" {
			out = append(out, metadataPair{key, named[key]})
		}
	}

	extra := make([]string, 0, len(m.Author))
	for key := range m.Author {
		if _, taken := named[key]; taken {
			continue
		}
		extra = append(extra, key)
	}
	sort.Strings(extra)
	for _, key := range extra {
		if m.Author[key] != "" {
			out = append(out, metadataPair{key, m.Author[key]})
		}
	}
	return out
}

// DecodeMetadata extracts a metadata block from text, trying back
// placement first (the current format) and front placement second
// (the legacy format). It returns the metadata, the remaining body,
// and whether a block was found.
//
// Decoding is tolerant: a malformed or absent block yields
// (zero metadata, full text, false) rather than an error.
func DecodeMetadata(text string) (Metadata, string, bool) {
	if meta, body, ok := decodeBack(text); ok {
		return meta, body, true
	}
	if meta, body, ok := decodeFront(text); ok {
		return meta, body, true
	}
	return Metadata{}, text, false
}

// decodeFront parses a block at the very start of the text.
// Lines between the delimiters that lack a colon are ignored.
func decodeFront(text string) (Metadata, string, bool) {
	if !strings.HasPrefix(text, metadataDelimiter+"\n") {
		return Metadata{}, "", false
	}
	rest := text[len(metadataDelimiter)+1:]
	end := strings.Index(rest, "\n"+metadataDelimiter+"\n")
	if end < 0 {
		return Metadata{}, "", false
	}
	meta := parseMetadataLines(strings.Split(rest[:end], "\n"))
	body := rest[end+len(metadataDelimiter)+2:]
	return meta, body, true
}

// decodeBack parses a block at the very end of the text. Every line
// between the delimiters must be a "key: value" line, and at least one
// is required; otherwise the text is left untouched.
func decodeBack(text string) (Metadata, string, bool) {
	trimmed := strings.TrimRight(text, " \t\n")
	if !strings.HasSuffix(trimmed, "\n"+metadataDelimiter) {
		return Metadata{}, "", false
	}
	inner := trimmed[:len(trimmed)-len(metadataDelimiter)-1]

	open := strings.LastIndex(inner, "\n"+metadataDelimiter+"\n")
	if open < 0 {
		return Metadata{}, "", false
	}
	block := inner[open+len(metadataDelimiter)+2:]

	lines := strings.Split(strings.TrimRight(block, "\n"), "\n")
	if len(lines) == 0 {
		return Metadata{}, "", false
	}
	for _, line := range lines {
		key, _, ok := splitMetadataLine(line)
		if !ok || key == "" {
			return Metadata{}, "", false
		}
	}

	meta := parseMetadataLines(lines)
	// The newline preceding the opening delimiter belongs to the block,
	// not the body.
	return meta, text[:open], true
}

// parseMetadataLines builds a Metadata from "key: value" lines,
// routing recognised keys to named fields and the rest into Author.
func parseMetadataLines(lines []string) Metadata {
	var meta Metadata
	for _, line := range lines {
		key, value, ok := splitMetadataLine(line)
		if !ok {
			continue
		}
		switch key {
		case "id":
			meta.ID = value
		case "repo_url":
			meta.RepoURL = value
		case "repo_name":
			meta.RepoName = value
		case "doc_type":
			meta.DocType = value
		case "collection":
			meta.Collection = value
		case "generated_at":
			meta.GeneratedAt = value
		case "generator":
			meta.Generator = value
		case "version":
			meta.Version = value
		default:
			if meta.Author == nil {
				meta.Author = make(map[string]string)
			}
			meta.Author[key] = value
		}
	}
	return meta
}

// splitMetadataLine splits one "key: value" line, trimming whitespace
// and stripping a matching pair of surrounding quotes from the value.
func splitMetadataLine(line string) (key, value string, ok bool) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return "", "", false
	}
	key = strings.TrimSpace(line[:idx])
	value = strings.TrimSpace(line[idx+1:])
	value = stripMatchingQuotes(value)
	return key, value, true
}

// stripMatchingQuotes removes one pair of matching double or single
// quotes wrapping the value.
func stripMatchingQuotes(v string) string {
	if len(v) >= 2 {
		first, last := v[0], v[len(v)-1]
		if first == last && (first == '"' || first == '\'') {
			return v[1 : len(v)-1]
		}
	}
	return v
}

// quoteMetadataValue double-quotes values containing a space or colon.
func quoteMetadataValue(v string) string {
	if strings.ContainsAny(v, " :") {
		return `"` + v + `"`
	}
	return v
}
