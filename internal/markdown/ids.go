package markdown

import (
	"strconv"

	"github.com/yuin/goldmark/ast"

	"github.com/GODLiangCY/Blog/internal/content"
)

// ids generates heading ids with content.Slugify, suffixing repeats with
// -1, -2 and so on.
type ids struct {
	used map[string]bool
}

func newIDs() *ids {
	return &ids{used: map[string]bool{}}
}

func (s *ids) Generate(value []byte, kind ast.NodeKind) []byte {
	base := content.Slugify(string(value))
	if base == "" {
		if kind == ast.KindHeading {
			base = "heading"
		} else {
			base = "id"
		}
	}

	id := base
	for i := 1; s.used[id]; i++ {
		id = base + "-" + strconv.Itoa(i)
	}
	s.used[id] = true
	return []byte(id)
}

func (s *ids) Put(value []byte) {
	s.used[string(value)] = true
}
