package gopher

import (
	"strconv"
	"strings"

	"github.com/jackfish212/gopherengine/types"
)

// ParseMenu parses a Gopher menu response body into a sequence of
// MenuItems. It accepts both "\r\n" and "\n" line endings, stops at a
// line containing only ".", and tolerates missing trailing fields on
// well-typed lines. Unlike a strict parser, a line that cannot be
// decoded as a proper menu line is never dropped: it is turned into an
// Info item carrying the raw line text, so parsing always terminates
// and always yields a sequence, no matter how malformed the input.
func ParseMenu(content string) []types.MenuItem {
	var items []types.MenuItem

	for _, line := range splitLines(content) {
		if line == "." {
			break
		}
		if line == "" {
			continue
		}

		item, ok := parseMenuLine(line)
		if !ok {
			item = types.MenuItem{Type: types.Info, Display: line}
		}
		items = append(items, item)
	}

	return items
}

func parseMenuLine(line string) (types.MenuItem, bool) {
	itype := types.ItemTypeFromByte(line[0])
	fields := strings.Split(line[1:], "\t")

	if len(fields) >= 3 {
		port := uint16(70)
		if len(fields) >= 4 {
			if p, err := strconv.Atoi(fields[3]); err == nil && p >= 0 && p <= 65535 {
				port = uint16(p)
			}
		}
		return types.MenuItem{
			Type:     itype,
			Display:  fields[0],
			Selector: fields[1],
			Host:     fields[2],
			Port:     port,
		}, true
	}

	if itype == types.Info {
		return types.MenuItem{Type: types.Info, Display: fields[0]}, true
	}

	return types.MenuItem{}, false
}
