package hostconfig

import (
	"regexp"
	"strings"
)

var (
	hostAnyRE   = regexp.MustCompile(`^Host\s+(.+)$`)
	hostExactRE = regexp.MustCompile(`^Host\s+(\S+)\s*$`)
	keyValRE    = regexp.MustCompile(`^\s*([A-Za-z][A-Za-z0-9]*)\s+(.+?)\s*$`)
)

// Recognized keys, lower-cased.
const (
	keyHostName          = "hostname"
	keyPort              = "port"
	keyHostKeyAlgorithms = "hostkeyalgorithms"
	keyKexAlgorithms     = "kexalgorithms"
	keyMACs              = "macs"
)

// hostLineAliases reports whether line declares aliases and returns them.
// A declaration line with only whitespace after "Host" still ends the
// previous block but yields no aliases.
func hostLineAliases(line string) ([]string, bool) {
	m := hostAnyRE.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	return strings.Fields(m[1]), true
}

// exactHostAlias returns the alias of a single-alias Host line.
func exactHostAlias(line string) (string, bool) {
	m := hostExactRE.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func splitKeyValue(line string) (key, value string, ok bool) {
	m := keyValRE.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	return strings.ToLower(m[1]), m[2], true
}

// splitLinesKeepEnds splits text after every "\n", keeping the terminators so
// untouched lines can be written back byte for byte.
func splitLinesKeepEnds(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func trimEOL(line string) string {
	return strings.TrimRight(line, "\r\n")
}

// readBlock scans text for the first single-alias block of alias. The block
// ends at the next Host line of any arity; later blocks for the same alias
// are not read. A key repeated inside the block takes its last value.
func readBlock(text, alias string) (HostEntry, bool) {
	e := HostEntry{Alias: alias}
	found, inBlock := false, false
	for _, raw := range splitLinesKeepEnds(text) {
		line := trimEOL(raw)
		if _, ok := hostLineAliases(line); ok {
			if a, exact := exactHostAlias(line); exact && a == alias {
				inBlock, found = true, true
				continue
			}
			if inBlock {
				break
			}
		}
		if !inBlock {
			continue
		}
		key, val, ok := splitKeyValue(line)
		if !ok {
			continue
		}
		switch key {
		case keyHostName:
			e.HostName = val
		case keyPort:
			e.Port = val
		case keyHostKeyAlgorithms:
			e.HostKeyAlgorithms = val
		case keyKexAlgorithms:
			e.KexAlgorithms = val
		case keyMACs:
			e.MACs = val
		}
	}
	return e, found
}

// removeBlocks drops every single-alias block for alias: the declaration line
// and everything up to, but not including, the next Host line.
func removeBlocks(text, alias string) (string, bool) {
	var b strings.Builder
	b.Grow(len(text))
	skip, removed := false, false
	for _, raw := range splitLinesKeepEnds(text) {
		line := trimEOL(raw)
		if _, ok := hostLineAliases(line); ok {
			skip = false
			if a, exact := exactHostAlias(line); exact && a == alias {
				skip, removed = true, true
				continue
			}
		}
		if skip {
			continue
		}
		b.WriteString(raw)
	}
	return b.String(), removed
}

// lineEnding returns the line terminator used by the last line break of
// text: "\r\n" for CRLF files, "\n" otherwise.
func lineEnding(text string) string {
	i := strings.LastIndexByte(text, '\n')
	if i > 0 && text[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

// blockSeparator returns what must precede a new block appended to text so
// that exactly one blank line separates it from existing content.
func blockSeparator(text, eol string) string {
	if text == "" {
		return ""
	}
	if !strings.HasSuffix(text, "\n") {
		return eol + eol
	}
	body := strings.TrimSuffix(text, "\n")
	last := body[strings.LastIndexByte(body, '\n')+1:]
	if strings.TrimSpace(last) == "" {
		return ""
	}
	return eol
}

const blockIndent = "    "

// renderBlock renders e in canonical key order with eol line endings.
// Hostname is always written; a blank Port and blank overrides are left out
// so the protocol defaults apply.
func renderBlock(e HostEntry, eol string) string {
	var b strings.Builder
	b.WriteString("Host " + e.Alias + eol)
	b.WriteString(strings.TrimRight(blockIndent+"Hostname "+e.HostName, " ") + eol)
	for _, kv := range [][2]string{
		{"Port", e.Port},
		{"HostKeyAlgorithms", e.HostKeyAlgorithms},
		{"KexAlgorithms", e.KexAlgorithms},
		{"MACs", e.MACs},
	} {
		if kv[1] == "" {
			continue
		}
		b.WriteString(blockIndent + kv[0] + " " + kv[1] + eol)
	}
	return b.String()
}
