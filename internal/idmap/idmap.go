// Package idmap resolves numeric user and group ids to names from
// passwd(5) and group(5) formatted files.
package idmap

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"fls/internal/log"
)

// Map holds uid and gid names. Missing ids resolve to their decimal form.
type Map struct {
	users  map[uint32][]byte
	groups map[uint32][]byte
}

// Empty returns a map that always answers with numeric ids.
func Empty() *Map {
	return &Map{users: map[uint32][]byte{}, groups: map[uint32][]byte{}}
}

// Load reads both files. A file that cannot be read leaves its side empty,
// so lookups fall back to numbers.
func Load(passwdPath, groupPath string) *Map {
	m := Empty()
	if err := loadFile(passwdPath, m.users); err != nil {
		log.LogWithError(err).Debug("cannot read passwd file")
	}
	if err := loadFile(groupPath, m.groups); err != nil {
		log.LogWithError(err).Debug("cannot read group file")
	}
	return m
}

func loadFile(path string, into map[uint32][]byte) error {
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return parse(f, into)
}

// parse reads name:x:id:... lines. The first entry for an id wins.
func parse(r io.Reader, into map[uint32][]byte) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.SplitN(line, ":", 4)
		if len(fields) < 3 || fields[0] == "" {
			continue
		}
		id, err := strconv.ParseUint(fields[2], 10, 32)
		if err != nil {
			continue
		}
		if _, ok := into[uint32(id)]; !ok {
			into[uint32(id)] = []byte(fields[0])
		}
	}
	return scanner.Err()
}

// User returns the name of uid.
func (m *Map) User(uid uint32) []byte {
	if name, ok := m.users[uid]; ok {
		return name
	}
	return strconv.AppendUint(nil, uint64(uid), 10)
}

// Group returns the name of gid.
func (m *Map) Group(gid uint32) []byte {
	if name, ok := m.groups[gid]; ok {
		return name
	}
	return strconv.AppendUint(nil, uint64(gid), 10)
}
