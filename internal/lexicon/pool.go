package lexicon

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"warscout/internal/fileutil"
)

// DefaultPool is written to the pool file when none exists yet.
var DefaultPool = []string{
	"大乔", "张机", "孙权", "吕布", "吕蒙", "曹操", "刘备", "关羽", "马超",
	"卫瓘", "荀彧", "荀攸", "魏延", "妲己", "木鹿大王", "李儒", "夏侯惇", "夏侯霸",
}

// LoadPool reads the line-delimited general name pool at path. When the file
// does not exist, DefaultPool is written there and returned; seeded reports
// whether that happened. Blank lines and duplicates are dropped, order is
// preserved.
func LoadPool(path string) (names []string, seeded bool, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if werr := WritePool(path, DefaultPool); werr != nil {
			return nil, false, werr
		}
		return append([]string(nil), DefaultPool...), true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read general pool: %w", err)
	}
	names = ParsePool(data)
	if len(names) == 0 {
		return nil, false, fmt.Errorf("general pool %s is empty", path)
	}
	return names, false, nil
}

// ParsePool splits pool file contents into names.
func ParsePool(data []byte) []string {
	data = bytes.TrimPrefix(data, []byte("\ufeff"))
	seen := make(map[string]struct{})
	var names []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// WritePool atomically replaces the pool file with names, one per line.
func WritePool(path string, names []string) error {
	var buf bytes.Buffer
	for _, name := range names {
		buf.WriteString(name)
		buf.WriteByte('\n')
	}
	if err := fileutil.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write general pool: %w", err)
	}
	return nil
}
