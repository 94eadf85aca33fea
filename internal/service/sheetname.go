package service

import (
	"strconv"
	"strings"
)

// maxWorksheetNameLen is the hard limit Excel puts on worksheet names.
const maxWorksheetNameLen = 31

// worksheetName derives a valid, unique worksheet name from a playlist name:
// truncate to 31 characters, strip the characters Excel forbids, and fall
// back to a counter string when the result is empty or already taken. The
// counter values are themselves subject to the uniqueness check, so a later
// collision against a numeric name still resolves. The caller records the
// returned name in used before processing the next playlist.
func worksheetName(playlistName string, used map[string]struct{}) string {
	name := playlistName
	if runes := []rune(name); len(runes) > maxWorksheetNameLen {
		name = string(runes[:maxWorksheetNameLen])
	}
	name = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']', '\t', '\n', '\r':
			return -1
		}
		return r
	}, name)

	counter := 0
	if name == "" {
		name = strconv.Itoa(counter)
		counter++
	}
	for {
		if _, taken := used[name]; !taken {
			return name
		}
		name = strconv.Itoa(counter)
		counter++
	}
}
