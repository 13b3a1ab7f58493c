package rename

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// UniqueName returns name, or name with a _N counter spliced in before the
// extension, whichever is first free in dir.
func UniqueName(dir, name string) string {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	final := name
	for counter := 1; ; counter++ {
		if _, err := os.Stat(filepath.Join(dir, final)); os.IsNotExist(err) {
			return final
		}
		final = fmt.Sprintf("%s_%d%s", base, counter, ext)
	}
}
